// Package testserver runs in-memory fakes of the Folksonomy and NutriPatrol
// services on httptest servers. The fakes answer with the same body shapes as
// the real services, including FastAPI-style 422 validation errors built from
// gin binding failures.
package testserver
