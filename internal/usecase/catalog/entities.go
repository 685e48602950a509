package catalog

type CreateBookInput struct {
	Title    string
	Author   string
	ISBN     string
	Quantity int
}

type BookDTO struct {
	ID                uint64 `json:"id"`
	Title             string `json:"title"`
	Author            string `json:"author"`
	ISBN              string `json:"isbn"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	Active            bool   `json:"active"`
}
