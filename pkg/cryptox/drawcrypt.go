package cryptox

// SealDraw encrypts a canonical draw selection under the owning user's draw
// key. Every call uses a fresh nonce, so sealing the same selection twice
// yields different ciphertexts.
func SealDraw(plaintext, drawKey []byte) ([]byte, error) {
	return seal(drawKey, plaintext)
}

// OpenDraw decrypts a sealed draw selection. It fails closed with ErrDecrypt
// on any integrity failure, including a key belonging to another user.
//
// The result is a newly allocated slice; ciphertext is left untouched so
// concurrent readers of the same stored record never share plaintext buffers.
func OpenDraw(ciphertext, drawKey []byte) ([]byte, error) {
	return open(drawKey, ciphertext)
}
