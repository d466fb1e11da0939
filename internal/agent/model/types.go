package model

// Intent is the classified purpose of a user message. Exactly one intent is
// reported per message; classification order is the tie-break.
type Intent int

const (
	IntentNone Intent = iota
	IntentProductInfo
	IntentOrderStatus
	IntentKnowledge
)

func (i Intent) String() string {
	switch i {
	case IntentProductInfo:
		return "product_info"
	case IntentOrderStatus:
		return "order_status"
	case IntentKnowledge:
		return "knowledge"
	default:
		return "none"
	}
}

// Entities holds the entities extracted from a single user message. Empty
// string means the entity was not present.
type Entities struct {
	OrderID     string
	ProductName string
}

// RetrievalCandidate is a single knowledge-base hit as returned by the
// retrieval collaborator. Two candidates with identical title and content are
// duplicates regardless of score.
type RetrievalCandidate struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Answer is the final response payload for a processed message.
type Answer struct {
	Text string `json:"text"`
}

// Order is a row in the order store.
type Order struct {
	ID          string  `json:"id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	OrderDate   string  `json:"order_date"`
}
