package identity

import (
	"bytes"
	"errors"
	"testing"

	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// withPrivateKeyStorages 同一组用例跑内存版与文件版两个实现
func withPrivateKeyStorages(t *testing.T, fn func(t *testing.T, s interfaces.PrivateKeyStorage)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryPrivateKeyStorage())
	})
	t.Run("file", func(t *testing.T) {
		s, err := NewFilePrivateKeyStorage(t.TempDir(), nil)
		if err != nil {
			t.Fatalf("NewFilePrivateKeyStorage() error = %v", err)
		}
		fn(t, s)
	})
}

func TestPrivateKeyStorage_KeyPairLifecycle(t *testing.T) {
	withPrivateKeyStorages(t, func(t *testing.T, s interfaces.PrivateKeyStorage) {
		keyName := types.MustParseName("/alice/KEY/ksk-1")

		for _, class := range []types.KeyClass{types.KeyClassPublic, types.KeyClassPrivate} {
			exists, err := s.DoesKeyExist(keyName, class)
			if err != nil {
				t.Fatalf("DoesKeyExist(%v) error = %v", class, err)
			}
			if exists {
				t.Errorf("DoesKeyExist(%v) = true before generation", class)
			}
		}

		if err := s.GenerateKeyPair(keyName, types.KeyTypeEC, 256); err != nil {
			t.Fatalf("GenerateKeyPair() error = %v", err)
		}
		if err := s.GenerateKeyPair(keyName, types.KeyTypeEC, 256); !errors.Is(err, security.ErrAlreadyExists) {
			t.Errorf("GenerateKeyPair(duplicate) error = %v, want ErrAlreadyExists", err)
		}

		for _, class := range []types.KeyClass{types.KeyClassPublic, types.KeyClassPrivate} {
			exists, err := s.DoesKeyExist(keyName, class)
			if err != nil {
				t.Fatalf("DoesKeyExist(%v) error = %v", class, err)
			}
			if !exists {
				t.Errorf("DoesKeyExist(%v) = false after generation", class)
			}
		}

		pub, err := s.GetPublicKey(keyName)
		if err != nil {
			t.Fatalf("GetPublicKey() error = %v", err)
		}
		if pub.KeyType() != types.KeyTypeEC {
			t.Errorf("public key type = %v, want KeyTypeEC", pub.KeyType())
		}
		if len(pub.KeyDer()) == 0 {
			t.Error("public key DER is empty")
		}
	})
}

func TestPrivateKeyStorage_SignVerify(t *testing.T) {
	withPrivateKeyStorages(t, func(t *testing.T, s interfaces.PrivateKeyStorage) {
		keyName := types.MustParseName("/alice/KEY/ksk-1")
		if err := s.GenerateKeyPair(keyName, types.KeyTypeEC, 256); err != nil {
			t.Fatalf("GenerateKeyPair() error = %v", err)
		}

		payload := []byte("signed payload")
		sigBytes, err := s.Sign(payload, keyName, types.DigestAlgorithmSHA256)
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}

		pub, err := s.GetPublicKey(keyName)
		if err != nil {
			t.Fatalf("GetPublicKey() error = %v", err)
		}
		verifier, err := pub.Parse()
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		ok, err := verifier.Verify(payload, sigBytes)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !ok {
			t.Error("Verify() = false for untampered payload")
		}

		payload[0] ^= 0xff
		ok, err = verifier.Verify(payload, sigBytes)
		if err != nil {
			t.Fatalf("Verify(tampered) error = %v", err)
		}
		if ok {
			t.Error("Verify() = true for tampered payload")
		}
	})
}

func TestPrivateKeyStorage_SignErrors(t *testing.T) {
	withPrivateKeyStorages(t, func(t *testing.T, s interfaces.PrivateKeyStorage) {
		keyName := types.MustParseName("/alice/KEY/ksk-1")

		if _, err := s.Sign([]byte("x"), keyName, types.DigestAlgorithmSHA256); !errors.Is(err, security.ErrNotFound) {
			t.Errorf("Sign(missing key) error = %v, want ErrNotFound", err)
		}

		if err := s.GenerateKeyPair(keyName, types.KeyTypeEC, 256); err != nil {
			t.Fatalf("GenerateKeyPair() error = %v", err)
		}
		if _, err := s.Sign([]byte("x"), keyName, types.DigestAlgorithm(99)); !errors.Is(err, security.ErrUnsupportedScheme) {
			t.Errorf("Sign(bad digest) error = %v, want ErrUnsupportedScheme", err)
		}
	})
}

func TestPrivateKeyStorage_SymmetricKeys(t *testing.T) {
	withPrivateKeyStorages(t, func(t *testing.T, s interfaces.PrivateKeyStorage) {
		keyName := types.MustParseName("/alice/KEY/e-1")

		if err := s.GenerateKey(keyName, types.KeyTypeRSA, 2048); !errors.Is(err, security.ErrUnsupportedScheme) {
			t.Errorf("GenerateKey(RSA) error = %v, want ErrUnsupportedScheme", err)
		}

		if err := s.GenerateKey(keyName, types.KeyTypeAES, 256); err != nil {
			t.Fatalf("GenerateKey() error = %v", err)
		}
		if err := s.GenerateKey(keyName, types.KeyTypeAES, 256); !errors.Is(err, security.ErrAlreadyExists) {
			t.Errorf("GenerateKey(duplicate) error = %v, want ErrAlreadyExists", err)
		}

		exists, err := s.DoesKeyExist(keyName, types.KeyClassSymmetric)
		if err != nil {
			t.Fatalf("DoesKeyExist() error = %v", err)
		}
		if !exists {
			t.Error("DoesKeyExist(symmetric) = false after generation")
		}

		plaintext := []byte("secret content")
		ciphertext, err := s.Encrypt(keyName, plaintext)
		if err != nil {
			t.Fatalf("Encrypt() error = %v", err)
		}
		if bytes.Equal(ciphertext, plaintext) {
			t.Error("Encrypt() returned plaintext unchanged")
		}

		decrypted, err := s.Decrypt(keyName, ciphertext)
		if err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if !bytes.Equal(decrypted, plaintext) {
			t.Errorf("Decrypt() = %q, want %q", decrypted, plaintext)
		}

		if _, err := s.Decrypt(types.MustParseName("/nobody/KEY/e-9"), ciphertext); !errors.Is(err, security.ErrNotFound) {
			t.Errorf("Decrypt(missing key) error = %v, want ErrNotFound", err)
		}
	})
}

// 重新打开同一目录后私钥仍可用，错误口令无法签名
func TestFilePrivateKeyStorage_Reopen(t *testing.T) {
	dir := t.TempDir()
	password := []byte("correct horse")
	keyName := types.MustParseName("/alice/KEY/ksk-1")
	payload := []byte("payload")

	s, err := NewFilePrivateKeyStorage(dir, password)
	if err != nil {
		t.Fatalf("NewFilePrivateKeyStorage() error = %v", err)
	}
	if err := s.GenerateKeyPair(keyName, types.KeyTypeEC, 256); err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	pub, err := s.GetPublicKey(keyName)
	if err != nil {
		t.Fatalf("GetPublicKey() error = %v", err)
	}

	reopened, err := NewFilePrivateKeyStorage(dir, password)
	if err != nil {
		t.Fatalf("NewFilePrivateKeyStorage(reopen) error = %v", err)
	}
	sigBytes, err := reopened.Sign(payload, keyName, types.DigestAlgorithmSHA256)
	if err != nil {
		t.Fatalf("Sign() after reopen error = %v", err)
	}
	verifier, err := pub.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	ok, err := verifier.Verify(payload, sigBytes)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("Verify() = false after reopen")
	}

	wrong, err := NewFilePrivateKeyStorage(dir, []byte("wrong password"))
	if err != nil {
		t.Fatalf("NewFilePrivateKeyStorage(wrong password) error = %v", err)
	}
	if _, err := wrong.Sign(payload, keyName, types.DigestAlgorithmSHA256); err == nil {
		t.Error("Sign() with wrong password error = nil, want error")
	}
}
