package sig

// EncodePKCS1v15 implements EMSA-PKCS1-v1_5-ENCODE (RFC 3447 §9.2):
// digestInfoPrefix || hashed, left-padded with 0xFF to emLen bytes under
// the 0x00 0x01 ... 0x00 frame.
func EncodePKCS1v15(digestInfoPrefix, hashed []byte, emLen int) ([]byte, error) {
	tLen := len(digestInfoPrefix) + len(hashed)
	if emLen < tLen+11 {
		log.WithField("em_len", emLen).Debug("PKCS1v1.5 signature: modulus too short for digest")
		return nil, ErrEncoding
	}

	em := make([]byte, emLen)
	em[1] = 0x01
	psLen := emLen - tLen - 3
	for i := 0; i < psLen; i++ {
		em[2+i] = 0xFF
	}
	em[2+psLen] = 0x00
	copy(em[3+psLen:], digestInfoPrefix)
	copy(em[3+psLen+len(digestInfoPrefix):], hashed)
	return em, nil
}
