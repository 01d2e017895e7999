package hash

import (
	"strings"
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "SecurePass123!",
			wantErr:  false,
		},
		{
			name:     "short password",
			password: "secret",
			wantErr:  false,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
		{
			name:     "longer than bcrypt allows",
			password: strings.Repeat("a", 73),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.password)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Hash() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Hash() unexpected error = %v", err)
				return
			}

			if hash == tt.password {
				t.Error("Hash() returned unhashed password")
			}

			if !strings.HasPrefix(hash, "$2a$10$") {
				t.Errorf("Hash() invalid bcrypt format, got = %s", hash[:10])
			}
		})
	}
}

func TestHashDifferentOutputs(t *testing.T) {
	password := "SamePassword123!"

	hash1, err := Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	hash2, err := Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() should generate different hashes for same password (salt)")
	}
}

func TestCompare(t *testing.T) {
	password := "MySecurePassword123!"
	hash, err := Hash(password)
	if err != nil {
		t.Fatalf("Failed to generate hash: %v", err)
	}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "correct password", password: password},
		{name: "incorrect password", password: "WrongPassword", wantErr: true},
		{name: "empty password", password: "", wantErr: true},
		{name: "case sensitive", password: strings.ToUpper(password), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Compare(hash, tt.password)
			if tt.wantErr && err == nil {
				t.Error("Compare() expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Compare() unexpected error = %v", err)
			}
		})
	}
}

func TestSHA256(t *testing.T) {
	// echo -n secret | openssl dgst -sha256 -binary | base64
	const want = "K7gNU3sdo+OL0wNhqoVWhr3g6s1xYv72ol/pe/Unols="

	if got := SHA256("secret"); got != want {
		t.Fatalf("SHA256() = %s, want %s", got, want)
	}
	if SHA256("secret") != SHA256("secret") {
		t.Error("SHA256() should be deterministic")
	}
	if SHA256("secret") == SHA256("Secret") {
		t.Error("SHA256() should differ for different passwords")
	}
}

func TestCompareSHA256(t *testing.T) {
	hashed := SHA256("secret")

	if !CompareSHA256(hashed, "secret") {
		t.Error("CompareSHA256() should accept the matching password")
	}
	if CompareSHA256(hashed, "wrong") {
		t.Error("CompareSHA256() should reject a different password")
	}
}

func TestSchemesAreNotInterchangeable(t *testing.T) {
	bcryptHash, err := Hash("secret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if CompareSHA256(bcryptHash, "secret") {
		t.Error("a bcrypt hash must not verify as SHA-256")
	}
	if Compare(SHA256("secret"), "secret") == nil {
		t.Error("a SHA-256 digest must not verify as bcrypt")
	}
}

func BenchmarkHash(b *testing.B) {
	password := "BenchmarkPassword123!"

	for i := 0; i < b.N; i++ {
		_, err := Hash(password)
		if err != nil {
			b.Fatalf("Hash() error = %v", err)
		}
	}
}
