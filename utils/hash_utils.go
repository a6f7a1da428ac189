package utils

import "golang.org/x/crypto/bcrypt"

// 账号口令统一以 bcrypt 哈希存储，创建用户时由模型钩子调用

// HashPassword 生成口令的 bcrypt 哈希，成本使用默认值
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPasswordHash 校验明文口令与存储的哈希是否匹配，
// 哈希损坏与口令错误对调用方表现一致
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
