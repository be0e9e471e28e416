package pkg

import (
	cryptoRand "crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

func RandDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

// RandHex 返回 n 个随机字节的十六进制串，邀请令牌用 32 字节
func RandHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := cryptoRand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
