package utils

import (
	"fmt"
	"math/rand"
	"strings"
)

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

// 头像颜色，前端直接作为 class 使用
var avatarColors = []string{
	"bg-blue-100 text-blue-600",
	"bg-green-100 text-green-600",
	"bg-yellow-100 text-yellow-600",
	"bg-pink-100 text-pink-600",
	"bg-indigo-100 text-indigo-600",
	"bg-teal-100 text-teal-600",
}

func GenerateRandomColor() string {
	return avatarColors[rand.Intn(len(avatarColors))]
}

// Initials 取姓名中前两个单词的首字母
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		if b.Len() >= 2 {
			break
		}
		b.WriteRune([]rune(word)[0])
	}
	return strings.ToUpper(b.String())
}
