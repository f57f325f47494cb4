package domain

import "errors"

// Доменные ошибки сервиса участников
var (
	// ErrMemberNotFound возвращается когда участник не найден в реляционном хранилище
	ErrMemberNotFound = errors.New("member not found")

	// ErrMemberExists возвращается при нарушении уникальности user_id
	// (например при гонке двух конкурентных регистраций)
	ErrMemberExists = errors.New("member already exists")

	// ErrMemberResolution возвращается когда участника не удалось
	// ни найти, ни создать (хранилище недоступно и т.п.)
	ErrMemberResolution = errors.New("member could not be resolved")
)
