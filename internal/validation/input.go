package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Границы валидации входных данных.
const (
	MinUsernameLength        = 3
	MaxUsernameLength        = 30
	MinHeadlineLength        = 3
	MaxHeadlineLength        = 200
	MaxBioLength             = 2000
	MinTaskTitleLength       = 3
	MaxTaskTitleLength       = 200
	MaxTaskDescriptionLength = 5000
	MinMessageLength         = 1
	MaxMessageLength         = 5000
	MaxCommentLength         = 2000
	MaxAddressLength         = 300

	// Суммы в минорных единицах валюты (копейках).
	MinPrice int64 = 0
	MaxPrice int64 = 10_000_000_000 // 100 миллионов рублей
)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}
	if len(parts[0]) == 0 || len(parts[0]) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(parts[1]) == 0 || len(parts[1]) > 255 || !strings.Contains(parts[1], ".") {
		return fmt.Errorf("некорректный домен email")
	}
	return nil
}

// ValidatePrice проверяет сумму в минорных единицах.
func ValidatePrice(fieldName string, value int64) error {
	if value < MinPrice {
		return fmt.Errorf("%s не может быть отрицательной", fieldName)
	}
	if value > MaxPrice {
		return fmt.Errorf("%s превышает допустимый максимум", fieldName)
	}
	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("рейтинг должен быть от 1 до 5")
	}
	return nil
}
