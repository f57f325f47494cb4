package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тестовые структуры данных соответствующие API
type MemberRequest struct {
	UserID string `json:"userId"`
}

type MemberResponse struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CatFact   string `json:"catFact"`
}

// TestE2E_MemberFlow тестирует полный поток поиска-или-создания участника
func TestE2E_MemberFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Настраиваем тестовое окружение
	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	var created MemberResponse

	t.Run("Register New Member", func(t *testing.T) {
		body, _ := json.Marshal(MemberRequest{UserID: "user-1"})
		resp := env.MakeRequest(t, http.MethodPost, "/members", bytes.NewReader(body))
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

		assert.Equal(t, "user-1", created.UserID)
		assert.NotEmpty(t, created.FirstName)
		assert.NotEmpty(t, created.LastName)
		assert.Equal(t, "a group of cats is called a clowder", created.CatFact)

		assert.EqualValues(t, 1, env.Processes.Calls(), "document store notified once")
		assert.EqualValues(t, 1, env.Events.Calls(), "queue notified once")
		assert.Equal(t, float64(1), testutil.ToFloat64(env.Counter))
	})

	t.Run("Repeat Lookup Returns Stored Names", func(t *testing.T) {
		body, _ := json.Marshal(MemberRequest{UserID: "user-1"})
		resp := env.MakeRequest(t, http.MethodPost, "/members", bytes.NewReader(body))
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var found MemberResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&found))

		assert.Equal(t, created.FirstName, found.FirstName)
		assert.Equal(t, created.LastName, found.LastName)

		// Повторный поиск не создает строку и не уведомляет
		assert.EqualValues(t, 1, env.Processes.Calls())
		assert.EqualValues(t, 1, env.Events.Calls())
		assert.Equal(t, float64(1), testutil.ToFloat64(env.Counter))
	})

	t.Run("Row Persisted In Database", func(t *testing.T) {
		var firstName, lastName string
		err := env.DB.QueryRow(env.ctx,
			"SELECT first_name, last_name FROM members WHERE user_id = $1", "user-1",
		).Scan(&firstName, &lastName)
		require.NoError(t, err)

		assert.Equal(t, created.FirstName, firstName)
		assert.Equal(t, created.LastName, lastName)
	})

	t.Run("Simple Variant Without Notifications", func(t *testing.T) {
		body, _ := json.Marshal(MemberRequest{UserID: "user-2"})
		resp := env.MakeRequest(t, http.MethodPost, "/member", bytes.NewReader(body))
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var member MemberResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&member))

		assert.Equal(t, "user-2", member.UserID)
		assert.NotEmpty(t, member.FirstName)
		assert.Empty(t, member.CatFact)

		assert.EqualValues(t, 1, env.Processes.Calls(), "no extra notification")
		assert.EqualValues(t, 1, env.Events.Calls(), "no extra publish")
	})

	t.Run("Missing UserID Returns 400", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodPost, "/members", bytes.NewReader([]byte(`{}`)))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var echo map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&echo))
		_, ok := echo["userId"]
		assert.True(t, ok)
	})

	t.Run("Malformed Body Returns 500", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodPost, "/members", bytes.NewReader([]byte(`{"userId"`)))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "INTERNAL SERVER ERROR", body["error"])
	})
}

// TestE2E_DuplicateInsert проверяет что уникальность user_id обеспечивается
// первичным ключом в базе
func TestE2E_DuplicateInsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	_, err := env.DB.Exec(env.ctx,
		"INSERT INTO members (user_id, first_name, last_name) VALUES ($1, $2, $3)",
		"user-dup", "Anna", "Orlova",
	)
	require.NoError(t, err)

	_, err = env.DB.Exec(env.ctx,
		"INSERT INTO members (user_id, first_name, last_name) VALUES ($1, $2, $3)",
		"user-dup", "Other", "Name",
	)
	require.Error(t, err, "primary key must reject duplicate user_id")

	// Сервис при этом возвращает уже существующую строку
	body, _ := json.Marshal(MemberRequest{UserID: "user-dup"})
	resp := env.MakeRequest(t, http.MethodPost, "/members", bytes.NewReader(body))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var member MemberResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&member))
	assert.Equal(t, "Anna", member.FirstName)
	assert.Equal(t, "Orlova", member.LastName)
}

// TestE2E_StoreUnavailable проверяет что недоступность хранилища
// отображается в 401 согласно исходному маппингу статусов
func TestE2E_StoreUnavailable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	// Останавливаем контейнер чтобы запросы к базе падали
	require.NoError(t, env.PostgresContainer.Stop(env.ctx, nil))

	body, _ := json.Marshal(MemberRequest{UserID: "user-1"})
	resp := env.MakeRequest(t, http.MethodPost, "/members", bytes.NewReader(body))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var echo map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echo))
	assert.Equal(t, "user-1", echo["userId"])
}
