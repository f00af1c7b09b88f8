//go:build sqlite_vec && cgo

package store

// Accelerated K-NN via the sqlite-vec vec0 virtual table. Mirrors the
// teacher's internal/store/init_vec.go: the cgo extension is only
// registered under this build tag, so the default `go build` stays
// pure-Go and the accelerated path is opt-in with `-tags sqlite_vec`.
import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	vec.Auto()
}

const vecAccelEnabled = true
