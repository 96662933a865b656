// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, register access for devices that expose a byte addressed
// register map over I²C.
package common

import (
	"errors"

	"periph.io/x/conn/v3"
)

var errEmptyRead = errors.New("common: empty register read")

// ReadRegister reads len(r) bytes starting at register reg. The register
// address write and the data read happen in a single transaction so that
// consecutive registers are read as one coherent burst.
func ReadRegister(c conn.Conn, reg byte, r []byte) error {
	if len(r) == 0 {
		return errEmptyRead
	}
	return c.Tx([]byte{reg}, r)
}

// ReadRegisterByte reads a single byte register.
func ReadRegisterByte(c conn.Conn, reg byte) (byte, error) {
	var b [1]byte
	if err := c.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteRegister writes values starting at register reg.
func WriteRegister(c conn.Conn, reg byte, values ...byte) error {
	w := make([]byte, 0, len(values)+1)
	w = append(w, reg)
	w = append(w, values...)
	return c.Tx(w, nil)
}
