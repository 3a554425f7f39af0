package orders

// ItemStatus représente le cycle de vie d'un article de commande.
// PLACED → SHIPPED → DELIVERED, ou PLACED → CANCELLED.
type ItemStatus string

const (
	StatusPlaced    ItemStatus = "PLACED"
	StatusShipped   ItemStatus = "SHIPPED"
	StatusDelivered ItemStatus = "DELIVERED"
	StatusCancelled ItemStatus = "CANCELLED"
)

var validNext = map[ItemStatus]map[ItemStatus]bool{
	StatusPlaced:    {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition indique si le passage from → to est autorisé.
// Les transitions sont strictement monotones : aucun retour en arrière.
func CanTransition(from, to ItemStatus) bool {
	return validNext[from][to]
}

func (s ItemStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Terminal indique si le statut n'admet plus aucune transition
func (s ItemStatus) Terminal() bool {
	return len(validNext[s]) == 0
}
