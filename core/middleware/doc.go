// Package middleware groups the HTTP middleware of the validation API.
//
//   - auth: rejects requests without the configured X-API-Key.
//   - rayid: tags each request with a correlation ID that logger.WithRayID
//     adds to every log entry of the request.
//
// The serve command registers rayid first, then the request logger, then auth.
// Swagger and /metrics are mounted before auth and stay public.
package middleware
