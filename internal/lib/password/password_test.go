package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Digests below were computed independently (sha256 over the stated bytes).
func TestComputeHashCanonical(t *testing.T) {
	assert.Equal(t,
		"b81a77910dd1912164561f43279587ea3bedd7f0897c4a0ab4fa47192cfdc9bb",
		ComputeHashCanonical("A1B2C3D4E5", "123456"),
	)
}

func TestVerifyLegacy(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		salt     string
		password string
		want     bool
	}{
		{
			name:     "canonical utf-8 salt first",
			stored:   "b81a77910dd1912164561f43279587ea3bedd7f0897c4a0ab4fa47192cfdc9bb",
			salt:     "A1B2C3D4E5",
			password: "123456",
			want:     true,
		},
		{
			name:     "upper-case stored hash",
			stored:   "B81A77910DD1912164561F43279587EA3BEDD7F0897C4A0AB4FA47192CFDC9BB",
			salt:     "A1B2C3D4E5",
			password: "123456",
			want:     true,
		},
		{
			name:     "hex-decoded salt before password",
			stored:   "3e66f91cb25f1d3656bd0fd394bc0438af6df1658006746135ab288ca39650db",
			salt:     "5EED0F00",
			password: "123456",
			want:     true,
		},
		{
			name:     "hex-decoded salt after password",
			stored:   "80e4f1b4e011698d974afdc750fb2d52e710a002dec5ab267cf5b90c773618c4",
			salt:     "deadbeef",
			password: "secret",
			want:     true,
		},
		{
			name:     "utf-16le text salt first",
			stored:   "0cc205585aea1b87a0e66e40dd7e4f86308a6438428e515f067eb804d1ff55e0",
			salt:     "s@lt",
			password: "secret",
			want:     true,
		},
		{
			name:     "utf-16be password first",
			stored:   "8eaefd9f29ed4166ea4875384c3484697867beacb69fd399189cd36ca190ba3f",
			salt:     "s@lt",
			password: "secret",
			want:     true,
		},
		{
			name:     "double hash of salt first",
			stored:   "72e3e05a2fab4990ad7460ef0cb9cce0fcd3751d07c69e7019df36cb4128fc97",
			salt:     "s@lt",
			password: "secret",
			want:     true,
		},
		{
			name:     "double hash of password first",
			stored:   "073fc3b4a2edc55ae61a5900d76efb9e06b16181f756a2256ebeaf6f8be10d49",
			salt:     "s@lt",
			password: "secret",
			want:     true,
		},
		{
			name:     "utf-32le password only",
			stored:   "e5bff19f1a073138cb27cdef8caf40e680da2a656bc8f0963b4bd125cebec54c",
			salt:     "ignored",
			password: "secret",
			want:     true,
		},
		{
			name:     "trimmed salt variant",
			stored:   "d80ce9db407cd0e3461e86151ec53420db01b4a99efc13721d8d031cc2299137",
			salt:     "  AbC ",
			password: "secret",
			want:     true,
		},
		{
			name:     "ascii replaces non-ascii runes",
			stored:   "ead1276c0db1a265b2e4df308b372257beca23eead6796c03c4a6de865e085da",
			salt:     "salt",
			password: "pässword",
			want:     true,
		},
		{
			name:     "ascii replaces astral runes with two marks",
			stored:   "29d0815eb7905c8bd3329e6c52c6a220490b2458f30e33502795cc564f7e4beb",
			salt:     "salt",
			password: "a😀",
			want:     true,
		},
		{
			name:     "wrong password",
			stored:   "b81a77910dd1912164561f43279587ea3bedd7f0897c4a0ab4fa47192cfdc9bb",
			salt:     "A1B2C3D4E5",
			password: "654321",
			want:     false,
		},
		{
			name:     "empty stored hash",
			stored:   "",
			salt:     "A1B2C3D4E5",
			password: "123456",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyLegacy(tt.stored, tt.salt, tt.password))
		})
	}
}

func TestSaltVariants(t *testing.T) {
	assert.Equal(t, []string{" Ab ", "Ab", " AB ", " ab "}, SaltVariants(" Ab "))
	assert.Equal(t, []string{"ABC", "abc"}, SaltVariants("ABC"))
	assert.Equal(t, []string{"123"}, SaltVariants("123"))
	assert.Equal(t, []string{"abc", "ABC"}, SaltVariants("abc"))
	assert.Equal(t, []string{""}, SaltVariants(""))
}

func TestComputeHash_InvalidHexFallsBackToText(t *testing.T) {
	for _, salt := range []string{"xyz1", "abc", ""} {
		assert.Equal(t,
			ComputeHash(UTF8, salt, "pw", TextSaltFirst),
			ComputeHash(UTF8, salt, "pw", HexSaltFirst),
			"salt %q", salt,
		)
	}
}

func TestEncodings(t *testing.T) {
	assert.Equal(t, []byte{'h', 0, 'i', 0}, UTF16LE.Encode("hi"))
	assert.Equal(t, []byte{0, 'h', 0, 'i'}, UTF16BE.Encode("hi"))
	assert.Equal(t, []byte{'h', 0, 0, 0}, UTF32LE.Encode("h"))
	assert.Equal(t, []byte("caf?"), ASCII.Encode("café"))
}

func TestVerify_Bcrypt(t *testing.T) {
	hash, err := HashBcrypt("s3cret!")
	require.NoError(t, err)
	require.True(t, IsBcrypt(hash))

	assert.Equal(t, Result{OK: true}, Verify(hash, "", "s3cret!"))
	assert.Equal(t, Result{}, Verify(hash, "", "wrong"))
}

func TestVerify_LegacyIsFlagged(t *testing.T) {
	got := Verify("b81a77910dd1912164561f43279587ea3bedd7f0897c4a0ab4fa47192cfdc9bb", "A1B2C3D4E5", "123456")
	assert.Equal(t, Result{OK: true, Legacy: true}, got)
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.True(t, LooksLikeHex(a))
	assert.NotEqual(t, a, b)
}

func TestReport(t *testing.T) {
	report := Report("3e66f91cb25f1d3656bd0fd394bc0438af6df1658006746135ab288ca39650db", "5EED0F00", "123456")

	assert.True(t, strings.HasPrefix(report, "Stored: 3e66f91c"))
	assert.Contains(t, report, "Salt (raw): '5EED0F00'")
	assert.Contains(t, report, "salt='5EED0F00' hexBytes+saltFirst: 3e66f91cb25f1d3656bd0fd394bc0438af6df1658006746135ab288ca39650db")
	assert.Contains(t, report, "Computed SHA256(password) with UTF-8: 8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92")
	assert.Contains(t, report, "Computed SHA256(password) with UTF-16LE: ec278a38901287b2771a13739520384d43e4b078f78affe702def108774cce24")
	assert.Contains(t, report, "SaltLooksLikeHex: true")

	for _, enc := range Encodings {
		assert.Contains(t, report, "--- Encoding: "+enc.Name+" ---")
	}
	// "5EED0F00" has two distinct variants (raw/upper and lower), four lines each, per encoding.
	assert.Equal(t, 5*2*4, strings.Count(report, "salt='"))
}
