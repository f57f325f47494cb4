package domain

// Member представляет участника, идентифицируемого внешним userId
type Member struct {
	UserID    string `json:"userId" bson:"userId"`
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`

	// CatFact заполняется только в ответе расширенного варианта,
	// в базу никогда не сохраняется
	CatFact string `json:"catFact,omitempty" bson:"catFact,omitempty"`
}

// ProcessRecord представляет документ о регистрации участника,
// записываемый в документное хранилище (коллекция user_process)
type ProcessRecord struct {
	ID        string `bson:"id"`
	User      Member `bson:"user"`
	Timestamp string `bson:"timestamp"`
}

// MemberEvent представляет сообщение о регистрации участника для очереди
type MemberEvent struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	User    Member `json:"user"`
}

// EventRegistered - текст события регистрации нового участника
const EventRegistered = "registered user"
