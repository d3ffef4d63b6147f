// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives bound request data from the handler, applies the
// contact rules (presence validation, duplicate-name policy,
// partial update merge), and calls the record store.
package service
