// Package storage defines the persistence contracts consumed by the
// request pipeline and the resource handlers: credential lookup,
// permission grants, the two-phase audit log, and space/message/user
// records. Implementations live in the memory and postgres subpackages.
package storage
