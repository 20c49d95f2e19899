//go:build ignore

// This script prints the headers that authenticate one request with an EIP-191 signature.
// Run with: go run scripts/sign-auth-message.go -key <hex private key>
//
// Each signature is accepted once; run the script again for every request.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainsafe/bridge-claims/pkg/auth"
)

func main() {
	keyHex := flag.String("key", os.Getenv("BRIDGE_AUTH_KEY"), "Hex encoded secp256k1 private key")
	flag.Parse()

	if *keyHex == "" {
		fmt.Fprintln(os.Stderr, "a private key is required (-key or BRIDGE_AUTH_KEY)")
		os.Exit(2)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(*keyHex, "0x"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid private key: %v\n", err)
		os.Exit(1)
	}

	message := auth.SignedMessage(time.Now())
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign: %v\n", err)
		os.Exit(1)
	}
	sig[crypto.RecoveryIDOffset] += 27

	fmt.Printf("# signer %s\n", crypto.PubkeyToAddress(key.PublicKey).Hex())
	fmt.Printf("%s: %s\n", auth.HeaderMessage, message)
	fmt.Printf("%s: %s\n", auth.HeaderSignature, hexutil.Encode(sig))
}
