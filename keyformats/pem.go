package keyformats

import (
	"bytes"
	"encoding/pem"
)

// encodePEM renders block the way pem.EncodeToMemory does, then rewrites
// its LF line endings to CRLF. spec.md §6 requires "64-column base64
// body and CRLF line endings" for saved PEM output, and phpseclib itself
// emits CRLF for the same reason: a PKCS#1/PKCS#8 key is as likely to be
// consumed by a Windows-authored toolchain as not. encoding/pem's decoder
// tolerates either ending, so this only affects the write side.
func encodePEM(block *pem.Block) []byte {
	return bytes.ReplaceAll(pem.EncodeToMemory(block), []byte("\n"), []byte("\r\n"))
}
