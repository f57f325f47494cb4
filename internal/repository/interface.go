package repository

import (
	"context"

	"github.com/aidar/member-service/internal/domain"
)

// MemberRepository определяет методы для работы с данными участников
type MemberRepository interface {
	// GetByID получает участника по userId,
	// возвращает domain.ErrMemberNotFound если строки нет
	GetByID(ctx context.Context, userID string) (*domain.Member, error)

	// Create вставляет нового участника,
	// возвращает domain.ErrMemberExists при нарушении уникальности user_id
	Create(ctx context.Context, member *domain.Member) error
}

// ProcessStore определяет запись уведомления о регистрации в документное хранилище.
// Запись best-effort: ошибки логируются и не возвращаются
type ProcessStore interface {
	Record(ctx context.Context, transactionID string, member *domain.Member)
}

// EventPublisher определяет fire-and-forget публикацию события в очередь.
// Результат доставки только логируется, вызывающий его не ждет
type EventPublisher interface {
	Publish(ctx context.Context, transactionID string, member *domain.Member, message string)
}

// FactProvider определяет получение факта из внешнего API.
// При любой ошибке возвращает пустую строку
type FactProvider interface {
	Fact(ctx context.Context) string
}
