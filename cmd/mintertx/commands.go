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
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/erigontech/minter-tx/core/types"
	"github.com/erigontech/minter-tx/crypto"
	"github.com/erigontech/minter-tx/params"
)

var (
	txFileFlag = &cli.StringFlag{
		Name:     "tx",
		Usage:    "TOML or YAML file describing the transaction",
		Required: true,
	}

	keyFlag = &cli.StringFlag{
		Name:    "key",
		Usage:   "Hex encoded secp256k1 private key",
		EnvVars: []string{"MINTERTX_PRIVATE_KEY"},
	}

	keyFileFlag = &cli.StringFlag{
		Name:  "key-file",
		Usage: "File holding a hex encoded private key, takes precedence over --key",
	}

	maxSizeFlag = &cli.StringFlag{
		Name:    "max-size",
		Usage:   "Largest encoded transaction accepted, e.g. 32KB",
		Value:   params.DefaultMaxTxSize.String(),
		EnvVars: []string{"MINTERTX_MAX_TX_SIZE"},
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format: json, toml or yaml",
		Value: "json",
	}

	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Parallel sender recoveries, 0 for unlimited",
		Value: 4,
	}

	outFlag = &cli.StringFlag{
		Name:     "out",
		Usage:    "File to write the new private key to",
		Required: true,
	}

	signCmd = &cli.Command{
		Action: signTx,
		Name:   "sign",
		Usage:  "Builds and signs the transaction described by a TOML file",
		Flags:  []cli.Flag{txFileFlag, keyFlag, keyFileFlag, maxSizeFlag},
	}

	decodeCmd = &cli.Command{
		Action:    decodeTx,
		Name:      "decode",
		Usage:     "Prints the fields of a hex encoded transaction",
		ArgsUsage: "<0x...|->",
		Flags:     []cli.Flag{formatFlag, maxSizeFlag},
	}

	verifyCmd = &cli.Command{
		Action:    verifyTxs,
		Name:      "verify",
		Usage:     "Validates hex encoded transactions and recovers their senders",
		ArgsUsage: "<0x...|-> [0x...]",
		Flags:     []cli.Flag{workersFlag, maxSizeFlag},
	}

	addressCmd = &cli.Command{
		Action: printAddress,
		Name:   "address",
		Usage:  "Prints the address and public key of a private key",
		Flags:  []cli.Flag{keyFlag, keyFileFlag},
	}

	keygenCmd = &cli.Command{
		Action: generateKey,
		Name:   "keygen",
		Usage:  "Generates a private key and saves it hex encoded",
		Flags:  []cli.Flag{outFlag},
	}
)

func signTx(cliCtx *cli.Context) error {
	key, err := loadKey(cliCtx)
	if err != nil {
		return err
	}
	cfg, err := LoadTxConfig(cliCtx.String(txFileFlag.Name))
	if err != nil {
		return err
	}
	if cliCtx.IsSet(maxSizeFlag.Name) {
		if cfg.MaxSize, err = maxSize(cliCtx); err != nil {
			return err
		}
	}
	tx, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build the transaction: %w", err)
	}
	if err := tx.Sign(key); err != nil {
		return fmt.Errorf("failed to sign the transaction: %w", err)
	}
	if err := checkSize(tx.EncodingSize(), cfg.MaxSize); err != nil {
		return err
	}
	from, err := tx.Sender()
	if err != nil {
		return err
	}
	text, err := tx.MarshalText()
	if err != nil {
		return err
	}
	logger.Debug("[sign] signed", "type", tx.Type(), "nonce", tx.Nonce().Dec(), "size", tx.EncodingSize())

	w := cliCtx.App.Writer
	fmt.Fprintf(w, "tx:   %s\n", text)
	fmt.Fprintf(w, "hash: %s\n", tx.Hash())
	fmt.Fprintf(w, "from: %s\n", from)
	return nil
}

func decodeTx(cliCtx *cli.Context) error {
	limit, err := maxSize(cliCtx)
	if err != nil {
		return err
	}
	raws, err := rawArgs(cliCtx)
	if err != nil {
		return err
	}
	if len(raws) != 1 {
		return errors.New("expected exactly one transaction")
	}
	tx, err := parseRawTx(raws[0], limit)
	if err != nil {
		return err
	}

	var out []byte
	switch cliCtx.String(formatFlag.Name) {
	case "json":
		if out, err = json.MarshalIndent(tx, "", "  "); err != nil {
			return fmt.Errorf("failed to serialize the transaction into the JSON format: %w", err)
		}
		out = append(out, '\n')
	case "toml":
		cfg, err := TxConfigOf(tx)
		if err != nil {
			return err
		}
		if out, err = toml.Marshal(cfg); err != nil {
			return fmt.Errorf("failed to serialize the transaction into the TOML format: %w", err)
		}
	case "yaml":
		cfg, err := TxConfigOf(tx)
		if err != nil {
			return err
		}
		if out, err = yaml.Marshal(cfg); err != nil {
			return fmt.Errorf("failed to serialize the transaction into the YAML format: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", cliCtx.String(formatFlag.Name))
	}
	_, err = cliCtx.App.Writer.Write(out)
	return err
}

func verifyTxs(cliCtx *cli.Context) error {
	limit, err := maxSize(cliCtx)
	if err != nil {
		return err
	}
	raws, err := rawArgs(cliCtx)
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return errors.New("no transactions given")
	}

	txs := make([]*types.Transaction, len(raws))
	results := make([]types.ValidationResult, len(raws))
	var valid []*types.Transaction
	for i, raw := range raws {
		if txs[i], err = parseRawTx(raw, limit); err != nil {
			return fmt.Errorf("tx %d: %w", i, err)
		}
		if results[i] = txs[i].Validate(); results[i].OK() {
			valid = append(valid, txs[i])
		}
	}

	recoverer, err := types.NewSenderRecoverer(types.DefaultSendersCacheSize, logger)
	if err != nil {
		return err
	}
	senders, err := recoverer.Recover(cliCtx.Context, valid, cliCtx.Int(workersFlag.Name))
	if err != nil {
		return err
	}

	w := cliCtx.App.Writer
	invalid, j := 0, 0
	for i, tx := range txs {
		if !results[i].OK() {
			invalid++
			fmt.Fprintf(w, "%s %s\n", tx.Hash(), results[i])
			continue
		}
		fmt.Fprintf(w, "%s ok from=%s\n", tx.Hash(), senders[j])
		j++
	}
	if invalid > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d transactions are invalid", invalid, len(txs)), 1)
	}
	return nil
}

func printAddress(cliCtx *cli.Context) error {
	key, err := loadKey(cliCtx)
	if err != nil {
		return err
	}
	w := cliCtx.App.Writer
	fmt.Fprintf(w, "address:    %s\n", crypto.PubkeyToAddress(key.PublicKey))
	fmt.Fprintf(w, "public key: %s\n", hexutil.Encode(crypto.MarshalPubkey(&key.PublicKey)))
	return nil
}

func generateKey(cliCtx *cli.Context) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	path := cliCtx.String(outFlag.Name)
	if err := crypto.SaveECDSA(path, key); err != nil {
		return fmt.Errorf("failed to save the key: %w", err)
	}
	logger.Info("[keygen] key saved", "file", path)
	fmt.Fprintf(cliCtx.App.Writer, "address: %s\n", crypto.PubkeyToAddress(key.PublicKey))
	return nil
}

func loadKey(cliCtx *cli.Context) (*ecdsa.PrivateKey, error) {
	if path := cliCtx.String(keyFileFlag.Name); path != "" {
		return crypto.LoadECDSA(path)
	}
	if hexKey := cliCtx.String(keyFlag.Name); hexKey != "" {
		return crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	}
	return nil, errors.New("private key is not provided, use --key or --key-file")
}

func maxSize(cliCtx *cli.Context) (datasize.ByteSize, error) {
	size, err := datasize.ParseString(cliCtx.String(maxSizeFlag.Name))
	if err != nil {
		return 0, fmt.Errorf("invalid --%s: %w", maxSizeFlag.Name, err)
	}
	return size, nil
}

// rawArgs returns the command arguments; a single "-" reads whitespace separated
// transactions from stdin.
func rawArgs(cliCtx *cli.Context) ([]string, error) {
	args := cliCtx.Args().Slice()
	if len(args) != 1 || args[0] != "-" {
		return args, nil
	}
	in, err := io.ReadAll(cliCtx.App.Reader)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(in)), nil
}

func parseRawTx(s string, limit datasize.ByteSize) (*types.Transaction, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if err := checkSize((len(s)-2)/2, limit); err != nil {
		return nil, err
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalText([]byte(s)); err != nil {
		return nil, fmt.Errorf("failed to decode the transaction: %w", err)
	}
	return tx, nil
}
