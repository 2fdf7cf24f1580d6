// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package zstdcodec wraps klauspost/compress/zstd with a table-global
// dictionary, shared by the zstd_compressed_string column and the raw
// sequence blob column.
package zstdcodec

import (
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Dictionary holds one encoder/decoder pair bound to a shared zstd
// dictionary, so every row in a table compresses against the same
// reference distribution instead of paying per-row dictionary overhead.
type Dictionary struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New builds a Dictionary from raw dictionary bytes (trained offline by
// the out-of-scope ingestion pipeline, or empty for no dictionary).
func New(dict []byte) (*Dictionary, error) {
	var encOpts []zstd.EOption
	var decOpts []zstd.DOption
	if len(dict) > 0 {
		encOpts = append(encOpts, zstd.WithEncoderDict(dict))
		decOpts = append(decOpts, zstd.WithDecoderDicts(dict))
	}
	enc, err := zstd.NewWriter(nil, encOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "zstdcodec: building encoder")
	}
	dec, err := zstd.NewReader(nil, decOpts...)
	if err != nil {
		enc.Close()
		return nil, errors.Wrap(err, "zstdcodec: building decoder")
	}
	return &Dictionary{encoder: enc, decoder: dec}, nil
}

// Compress returns the zstd-compressed form of raw.
func (d *Dictionary) Compress(raw []byte) []byte {
	return d.encoder.EncodeAll(raw, nil)
}

// Decompress restores the original bytes from a blob produced by
// Compress.
func (d *Dictionary) Decompress(compressed []byte) ([]byte, error) {
	out, err := d.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstdcodec: decompressing")
	}
	return out, nil
}

// Close releases the decoder's background resources. The encoder has no
// resources requiring an explicit close beyond GC.
func (d *Dictionary) Close() {
	d.decoder.Close()
}
