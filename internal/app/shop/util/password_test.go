package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Success(t *testing.T) {
	// Arrange
	password := "mysecretpassword123"

	// Act
	hash, err := HashPassword(password)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash) // Хэш не должен совпадать с паролем
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	// Arrange
	password := "mysecretpassword123"

	// Act
	hash1, err1 := HashPassword(password)
	hash2, err2 := HashPassword(password)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2) // bcrypt использует random salt, поэтому хэши разные
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	// Arrange
	password := ""

	// Act
	hash, err := HashPassword(password)

	// Assert
	require.NoError(t, err) // bcrypt позволяет пустые пароли
	assert.NotEmpty(t, hash)
}

func TestCheckPassword_CorrectPassword(t *testing.T) {
	// Arrange
	password := "correctpassword123"
	hash, _ := HashPassword(password)

	// Act
	result := CheckPassword(password, hash)

	// Assert
	assert.True(t, result)
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	// Arrange
	password := "correctpassword123"
	hash, _ := HashPassword(password)

	// Act
	result := CheckPassword("wrongpassword", hash)

	// Assert
	assert.False(t, result)
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	// Arrange
	password := "somepassword"

	// Act
	result := CheckPassword(password, "")

	// Assert
	assert.False(t, result)
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	// Arrange
	password := "somepassword"

	// Act
	result := CheckPassword(password, "not-a-valid-bcrypt-hash")

	// Assert
	assert.False(t, result)
}

func TestCheckPassword_CaseSensitive(t *testing.T) {
	// Arrange
	password := "MyPassword123"
	hash, _ := HashPassword(password)

	// Act & Assert
	assert.True(t, CheckPassword("MyPassword123", hash))
	assert.False(t, CheckPassword("mypassword123", hash))
	assert.False(t, CheckPassword("MYPASSWORD123", hash))
}

func TestIsBcryptHash_RealHash(t *testing.T) {
	// Arrange
	hash, err := HashPassword("somepassword")
	require.NoError(t, err)

	// Act & Assert
	assert.True(t, IsBcryptHash(hash))
}

func TestIsBcryptHash_KnownPrefixes(t *testing.T) {
	// Разные версии bcrypt-префиксов
	assert.True(t, IsBcryptHash("$2a$10$abcdefghijklmnopqrstuv"))
	assert.True(t, IsBcryptHash("$2b$12$abcdefghijklmnopqrstuv"))
	assert.True(t, IsBcryptHash("$2y$10$abcdefghijklmnopqrstuv"))
}

func TestIsBcryptHash_PlainText(t *testing.T) {
	// Act & Assert
	assert.False(t, IsBcryptHash("plainpassword"))
	assert.False(t, IsBcryptHash(""))
	assert.False(t, IsBcryptHash("$1$md5hash"))
	assert.False(t, IsBcryptHash("2a$nodollarprefix"))
}

func TestIsBcryptHash_RehashPrevention(t *testing.T) {
	// Уже захэшированное значение не должно хэшироваться повторно:
	// определяем его по префиксу и сохраняем как есть
	password := "userpassword"
	hash, _ := HashPassword(password)

	if IsBcryptHash(hash) {
		// Значение сохраняется как есть, пароль продолжает подходить
		assert.True(t, CheckPassword(password, hash))
	} else {
		t.Fatal("bcrypt hash was not recognized")
	}
}
