package orders

import "errors"

var (
	ErrEmptyItems        = errors.New("aucun article à commander")
	ErrInvalidQuantity   = errors.New("quantité invalide")
	ErrProductNotFound   = errors.New("produit introuvable")
	ErrAddressNotFound   = errors.New("adresse introuvable")
	ErrInsufficientStock = errors.New("stock insuffisant")
	ErrItemNotFound      = errors.New("article de commande introuvable")
	ErrAlreadyShipped    = errors.New("commande déjà expédiée, annulation impossible")
	ErrAlreadyCancelled  = errors.New("article déjà annulé")
	ErrInvalidTransition = errors.New("transition de statut invalide")
)
