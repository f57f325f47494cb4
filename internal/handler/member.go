package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aidar/member-service/internal/domain"
	"github.com/aidar/member-service/internal/service"
)

// component используется в структурированных логах Request/Response
const component = "member"

// MemberHandler обрабатывает эндпоинты участников
type MemberHandler struct {
	memberService *service.MemberService
	logger        *slog.Logger
}

// NewMemberHandler создает новый MemberHandler
func NewMemberHandler(memberService *service.MemberService, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		logger:        logger,
	}
}

// MemberRequest представляет тело запроса обоих эндпоинтов
type MemberRequest struct {
	UserID string `json:"userId"`
}

// Members обрабатывает POST /members: расширенный вариант
// с уведомлениями, счетчиком и обогащением ответа
func (h *MemberHandler) Members(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.memberService.Register)
}

// Member обрабатывает POST /member: упрощенный вариант,
// только поиск-или-создание
func (h *MemberHandler) Member(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.memberService.Resolve)
}

// handle реализует общий поток обоих вариантов: на каждый запрос
// генерируется свежий transactionId, логи Request/Response пишутся
// на любом пути выполнения
func (h *MemberHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	resolve func(ctx context.Context, transactionID, userID string) (*domain.Member, error),
) {
	transactionID := uuid.NewString()

	var req MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		payload := ErrorResponse{Error: InternalError, Details: err.Error()}
		h.logRequest(transactionID, nil)
		h.respond(w, r, transactionID, http.StatusInternalServerError, payload)
		return
	}

	echo := EchoResponse{UserID: req.UserID}
	h.logRequest(transactionID, echo)

	if req.UserID == "" {
		h.respond(w, r, transactionID, http.StatusBadRequest, echo)
		return
	}

	member, err := resolve(r.Context(), transactionID, req.UserID)
	if err != nil {
		// Недоступность хранилища и неудавшееся создание
		// отображаются в 401, не в 500
		h.respond(w, r, transactionID, http.StatusUnauthorized, echo)
		return
	}

	h.respond(w, r, transactionID, http.StatusOK, member)
}

// respond пишет лог Response и отправляет JSON ответ
func (h *MemberHandler) respond(w http.ResponseWriter, r *http.Request, transactionID string, statusCode int, payload interface{}) {
	h.logResponse(transactionID, statusCode, payload)
	RespondWithJSON(w, r, statusCode, payload)
}

func (h *MemberHandler) logRequest(transactionID string, payload interface{}) {
	args := []interface{}{
		"component", component,
		"transactionId", transactionID,
	}
	if payload != nil {
		args = append(args, "payload", payload)
	}
	h.logger.Info("Request", args...)
}

func (h *MemberHandler) logResponse(transactionID string, returnCode int, payload interface{}) {
	h.logger.Info("Response",
		"component", component,
		"transactionId", transactionID,
		"returnCode", returnCode,
		"payload", payload,
	)
}
