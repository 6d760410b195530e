package v1

import (
	"net/http"

	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/orchestrators/clients"
	"github.com/KirkDiggler/trainer-api/internal/pkg/validate"
)

// ClientRequest is the body of create and update calls
type ClientRequest struct {
	FirstName string `json:"first_name" validate:"notblank,max=100"`
	LastName  string `json:"last_name" validate:"notblank,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,phone"`
	Goal      string `json:"goal,omitempty" validate:"max=500"`
	Notes     string `json:"notes,omitempty" validate:"max=4000"`
}

func (c *ClientRequest) fields() clients.ClientFields {
	return clients.ClientFields{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Goal:      c.Goal,
		Notes:     c.Notes,
	}
}

// ListClientsResponse is the body of the list call
type ListClientsResponse struct {
	Clients []*entities.Client `json:"clients"`
}

func (h *Handler) readClientRequest(w http.ResponseWriter, r *http.Request) (*ClientRequest, error) {
	var req ClientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request, trainer *entities.Trainer) error {
	req, err := h.readClientRequest(w, r)
	if err != nil {
		return err
	}

	out, err := h.clientService.CreateClient(r.Context(), &clients.CreateClientInput{
		TrainerID: trainer.ID,
		Fields:    req.fields(),
	})
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, out.Client)
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request, trainer *entities.Trainer) error {
	out, err := h.clientService.ListClients(r.Context(), &clients.ListClientsInput{TrainerID: trainer.ID})
	if err != nil {
		return err
	}

	list := out.Clients
	if list == nil {
		list = []*entities.Client{}
	}
	return writeJSON(w, http.StatusOK, ListClientsResponse{Clients: list})
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request, trainer *entities.Trainer) error {
	out, err := h.clientService.GetClient(r.Context(), &clients.GetClientInput{
		TrainerID: trainer.ID,
		ClientID:  r.PathValue("id"),
	})
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, out.Client)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request, trainer *entities.Trainer) error {
	req, err := h.readClientRequest(w, r)
	if err != nil {
		return err
	}

	out, err := h.clientService.UpdateClient(r.Context(), &clients.UpdateClientInput{
		TrainerID: trainer.ID,
		ClientID:  r.PathValue("id"),
		Fields:    req.fields(),
	})
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, out.Client)
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request, trainer *entities.Trainer) error {
	_, err := h.clientService.DeleteClient(r.Context(), &clients.DeleteClientInput{
		TrainerID: trainer.ID,
		ClientID:  r.PathValue("id"),
	})
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
