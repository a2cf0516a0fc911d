// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/erigontech/minter-tx/core/types"
	"github.com/erigontech/minter-tx/params"
)

// TxConfig is a transaction description read from a TOML file.
//
//	nonce = 1
//	gas_price = 1
//	type = "send"
//	payload = "custom text"
//	[data]
//	to = "Mx376615b9a3187747dc7c32e51723515ee62e37dc"
//	coin = "MNT"
//	value = "1"
//
// String amounts are in coin units, integer amounts in pip.
type TxConfig struct {
	Nonce       uint64            `toml:"nonce" yaml:"nonce"`
	GasPrice    uint64            `toml:"gas_price" yaml:"gas_price"`
	Type        string            `toml:"type" yaml:"type"`
	Payload     string            `toml:"payload,omitempty" yaml:"payload,omitempty"`
	ServiceData string            `toml:"service_data,omitempty" yaml:"service_data,omitempty"`
	MaxSize     datasize.ByteSize `toml:"max_size,omitempty" yaml:"max_size,omitempty"`
	Data        map[string]any    `toml:"data" yaml:"data"`
}

func defaultTxConfig() TxConfig {
	return TxConfig{
		GasPrice: params.DefaultGasPrice,
		MaxSize:  params.DefaultMaxTxSize,
	}
}

// ParseTxConfig decodes a TOML description. Unknown keys are rejected.
func ParseTxConfig(data []byte) (*TxConfig, error) {
	cfg := defaultTxConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse tx config: %w", err)
	}
	return checkTxConfig(&cfg)
}

// ParseTxConfigYAML is ParseTxConfig for the same description written as YAML.
func ParseTxConfigYAML(data []byte) (*TxConfig, error) {
	cfg := defaultTxConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse tx config: %w", err)
	}
	return checkTxConfig(&cfg)
}

func checkTxConfig(cfg *TxConfig) (*TxConfig, error) {
	if cfg.Type == "" {
		return nil, errors.New("parse tx config: missing type")
	}
	return cfg, nil
}

// LoadTxConfig reads a .toml or .yaml description.
func LoadTxConfig(path string) (*TxConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".toml":
		return ParseTxConfig(data)
	case ".yaml", ".yml":
		return ParseTxConfigYAML(data)
	default:
		return nil, errors.New("config files only accepted are .yaml and .toml")
	}
}

// Build assembles the unsigned transaction described by c.
func (c *TxConfig) Build() (*types.Transaction, error) {
	t, err := types.ParseTxType(c.Type)
	if err != nil {
		return nil, err
	}
	data, err := types.NewTxData(t, c.Data)
	if err != nil {
		return nil, err
	}
	var serviceData []byte
	if c.ServiceData != "" {
		if serviceData, err = hexutil.Decode(c.ServiceData); err != nil {
			return nil, fmt.Errorf("service_data: %w", err)
		}
	}
	tx, err := types.NewTransaction(types.TxParams{
		Nonce:       uint256.NewInt(c.Nonce),
		GasPrice:    uint256.NewInt(c.GasPrice),
		Type:        t,
		Payload:     data.Encode(),
		ExtraData:   []byte(c.Payload),
		ServiceData: serviceData,
	})
	if err != nil {
		return nil, err
	}
	if err := checkSize(tx.EncodingSize(), c.MaxSize); err != nil {
		return nil, err
	}
	return tx, nil
}

// TxConfigOf renders tx back into a description. Payloads of unknown types are an error.
func TxConfigOf(tx *types.Transaction) (*TxConfig, error) {
	data, err := tx.TxData()
	if err != nil {
		return nil, err
	}
	if !tx.Nonce().IsUint64() || !tx.GasPrice().IsUint64() {
		return nil, errors.New("nonce or gas price does not fit in 64 bits")
	}
	cfg := defaultTxConfig()
	cfg.Nonce = tx.Nonce().Uint64()
	cfg.GasPrice = tx.GasPrice().Uint64()
	cfg.Type = tx.Type().String()
	cfg.Payload = string(tx.ExtraData())
	if sd := tx.ServiceData(); len(sd) > 0 {
		cfg.ServiceData = hexutil.Encode(sd)
	}
	cfg.Data = data.Fields()
	return &cfg, nil
}

func checkSize(size int, limit datasize.ByteSize) error {
	if limit > 0 && datasize.ByteSize(size) > limit {
		return fmt.Errorf("transaction is %d bytes, limit is %s", size, limit)
	}
	return nil
}
