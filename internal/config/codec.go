// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"github.com/vk/trainconf/internal/document"
	"github.com/zeebo/blake3"
)

// encMode encodes with Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("config: CBOR encoder initialization failed: " + err.Error())
	}
}

// encodeCBOR encodes a document tree deterministically.
func encodeCBOR(n *document.Node) ([]byte, error) {
	return encMode.Marshal(document.ToNative(n.CtyValue()))
}

// fingerprint hashes the deterministic encoding of n.
func fingerprint(n *document.Node) (string, error) {
	data, err := encodeCBOR(n)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
