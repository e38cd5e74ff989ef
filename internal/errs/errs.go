// Package errs defines the error shape returned to API clients.
//
// Services and handlers return *HTTPError values; the global echo error
// handler renders them as JSON. Anything else is mapped to an HTTPError
// before it leaves the process.
package errs
