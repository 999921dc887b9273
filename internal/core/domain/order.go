package domain

import "fmt"

// Orden de admisión, доступная для записи
type Order struct {
	ID         int64  `json:"id"`
	ClaimCode  string `json:"reporte_siniestro"`
	ClientName string `json:"nb_cliente"`
	Plates     string `json:"placas"`
}

func (o Order) Label() string {
	return fmt.Sprintf("#%d %s · %s · %s", o.ID, o.ClaimCode, o.ClientName, o.Plates)
}

func FindOrder(orders []Order, id int64) (Order, bool) {
	for _, order := range orders {
		if order.ID == id {
			return order, true
		}
	}
	return Order{}, false
}
