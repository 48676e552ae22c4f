//go:build prod

package main

import (
	"github.com/frizinak/gotls/tls"
)

const Prod = true

func run(s *tls.Server, addr string) error {
	return s.Start(addr, false)
}
