//go:build unit || !integration

package signer

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// key used throughout go-ethereum's own tests
const testKey = "0xb71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func TestFromHexDerivesAddress(t *testing.T) {
	s, err := FromHex(testKey)
	require.NoError(t, err)
	key, err := crypto.HexToECDSA(testKey[2:])
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), s.Address())

	bare, err := FromHex(testKey[2:])
	require.NoError(t, err)
	assert.Equal(t, s.Address(), bare.Address())

	_, err = FromHex("not a key")
	require.Error(t, err)
}

func TestSignMessageRecoversToAddress(t *testing.T) {
	s, err := FromHex(testKey)
	require.NoError(t, err)

	msg := []byte("read:" + strings.ToLower(s.Address().Hex()) + "/0x01/1700000000000")
	sig, err := s.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	addr, err := RecoverMessageSigner(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), addr)

	other, err := RecoverMessageSigner([]byte("something else"), sig)
	require.NoError(t, err)
	assert.NotEqual(t, s.Address(), other)
}

func TestRecoverRejectsShortSignature(t *testing.T) {
	_, err := RecoverMessageSigner([]byte("x"), []byte{1, 2, 3})
	require.Error(t, err)
}

func TestSignTx(t *testing.T) {
	s, err := FromHex(testKey)
	require.NoError(t, err)

	chainID := big.NewInt(179188)
	to := common.HexToAddress("0x196A7EB3E16a8359c30408f4F79622157Ef86d7c")
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &to,
		Gas:      21000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(0),
	})

	signed, err := s.SignTx(context.Background(), tx, chainID)
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), from)
}
