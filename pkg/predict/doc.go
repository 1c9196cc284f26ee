// Package predict is the HTTP client for the car price prediction service.
// Every operation is one round trip without retries. Failed predictions that
// carry a field level validation list surface as *ValidationError; every
// other non-2xx reply surfaces as *APIError.
package predict
