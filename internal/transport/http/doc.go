// Package http implements the chi handlers of the FARS report API.
//
// Handlers stay thin: they parse and validate the request against the
// contracts in pkg/contracts/api/v1, call the report service and render the
// result. Every failure goes through errors.ErrorHandler so clients receive
// RFC 7807 problem details.
//
// Routes mounted under /api/v1:
//
//	GET /summary?years=2013,2014&format=json|csv|xlsx
//	GET /states/{state}/map?year=2013
//	GET /years
//
// Health routes are served by HealthHandler at /api/health and /api/version.
package http
