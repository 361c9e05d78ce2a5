// Package domain contains the core entities of the renewer: account
// credentials, the opaque session token, domain listing records, per-domain
// renewal outcomes and the run report. These types are free of browser and
// storage concerns so they can be shared across packages.
package domain
