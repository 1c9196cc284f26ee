// Package forms holds the state of the two car pricing forms. Each form owns
// its FormData and guards it with its own mutex; remote calls never run with
// the lock held.
//
// TrainingForm moves Loading -> Ready -> Submitting -> Ready and posts labeled
// rows. PredictionForm moves Loading -> Ready and runs a prediction attempt
// every time its FormData changes.
package forms
