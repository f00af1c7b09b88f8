//go:build !(sqlite_vec && cgo)

package store

const vecAccelEnabled = false
