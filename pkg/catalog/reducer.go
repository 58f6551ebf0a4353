package catalog

import "time"

// Product is the cached copy of a catalog item
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewProduct is the body of a create call
type NewProduct struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Status describes the most recent operation against the cache
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Op names a cache command
type Op uint8

const (
	OpFetchAll Op = iota
	OpFetchOne
	OpCreate
	OpUpdate
	OpDelete
	// OpClearSelected is synchronous and has no phase
	OpClearSelected
)

func (o Op) String() string {
	switch o {
	case OpFetchAll:
		return "fetch_all"
	case OpFetchOne:
		return "fetch_one"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpClearSelected:
		return "clear_selected"
	default:
		return "unknown"
	}
}

// Phase is the outcome half of an action
type Phase uint8

const (
	PhasePending Phase = iota
	PhaseFulfilled
	PhaseRejected
)

// DefaultErrorMessage is used when a rejection carries no message
const DefaultErrorMessage = "An unknown error occurred"

// Action pairs a command with its outcome. Which payload field is read
// depends on Op: Products for fetch-all, Product for fetch-one/create/update,
// ID for delete, Err for any rejection.
type Action struct {
	Op       Op
	Phase    Phase
	Products []Product
	Product  *Product
	ID       int64
	Err      string
}

// State is the cache contents
type State struct {
	Entities []Product
	Selected *Product
	Status   Status
	Error    string
}

// InitialState returns an empty idle cache
func InitialState() State {
	return State{Entities: []Product{}, Status: StatusIdle}
}

// Reduce applies a to s and returns the new state. It never mutates s.
func Reduce(s State, a Action) State {
	if a.Op == OpClearSelected {
		s.Entities = cloneProducts(s.Entities)
		s.Selected = nil
		return s
	}

	switch a.Phase {
	case PhasePending:
		next := s
		next.Entities = cloneProducts(s.Entities)
		next.Selected = cloneProduct(s.Selected)
		next.Status = StatusLoading
		next.Error = ""
		return next

	case PhaseRejected:
		next := s
		next.Entities = cloneProducts(s.Entities)
		next.Selected = cloneProduct(s.Selected)
		next.Status = StatusFailed
		next.Error = a.Err
		if next.Error == "" {
			next.Error = DefaultErrorMessage
		}
		return next
	}

	next := State{Status: StatusSucceeded}

	switch a.Op {
	case OpFetchAll:
		next.Entities = cloneProducts(a.Products)
		next.Selected = cloneProduct(s.Selected)

	case OpFetchOne:
		next.Entities = upsert(s.Entities, a.Product)
		next.Selected = cloneProduct(a.Product)

	case OpCreate:
		next.Entities = upsert(s.Entities, a.Product)
		next.Selected = cloneProduct(s.Selected)

	case OpUpdate:
		next.Entities = upsert(s.Entities, a.Product)
		next.Selected = cloneProduct(s.Selected)
		if a.Product != nil && s.Selected != nil && s.Selected.ID == a.Product.ID {
			next.Selected = cloneProduct(a.Product)
		}

	case OpDelete:
		next.Entities = make([]Product, 0, len(s.Entities))
		for _, p := range s.Entities {
			if p.ID != a.ID {
				next.Entities = append(next.Entities, p)
			}
		}
		if s.Selected != nil && s.Selected.ID != a.ID {
			next.Selected = cloneProduct(s.Selected)
		}

	default:
		next.Entities = cloneProducts(s.Entities)
		next.Selected = cloneProduct(s.Selected)
	}

	return next
}

// upsert replaces the entity with p's id in place, or appends p
func upsert(entities []Product, p *Product) []Product {
	out := cloneProducts(entities)
	if p == nil {
		return out
	}
	for i := range out {
		if out[i].ID == p.ID {
			out[i] = *p
			return out
		}
	}
	return append(out, *p)
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	copy(out, in)
	return out
}

func cloneProduct(p *Product) *Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
