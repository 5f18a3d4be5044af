package rpc

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"campusledger/core/types"
	"campusledger/native/common"
)

type ackResponse struct {
	Status string `json:"status"`
}

var ok = ackResponse{Status: "ok"}

// --- token ---

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		To     string `json:"to"`
		Amount string `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseCoins("amount", req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.Mint(caller, to, amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Amount string `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseCoins("amount", req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.Burn(caller, amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		To     string `json:"to"`
		Amount string `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseCoins("amount", req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.Transfer(caller, to, amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress("addr", chi.URLParam(r, "addr"))
	if err != nil {
		writeError(w, err)
		return
	}
	balance, err := s.node.BalanceOf(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Balance string `json:"balance"`
		Coins   string `json:"coins"`
	}{Balance: balance.String(), Coins: types.FromScaled(balance).String()})
}

// --- registry ---

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string `json:"caller"`
		Student string `json:"student"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	student, err := parseAddress("student", req.Student)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.AddStudent(caller, student); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string `json:"caller"`
		Student string `json:"student"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	student, err := parseAddress("student", req.Student)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.RemoveStudent(caller, student); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleAddProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller   string `json:"caller"`
		Provider string `json:"provider"`
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.AddServiceProvider(caller, provider, req.Name, req.Category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleUpdateProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller   string `json:"caller"`
		Provider string `json:"provider"`
		Name     string `json:"name"`
		Category string `json:"category"`
		Active   bool   `json:"active"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.UpdateServiceProvider(caller, provider, req.Name, req.Category, req.Active); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleRemoveProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller   string `json:"caller"`
		Provider string `json:"provider"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.RemoveServiceProvider(caller, provider); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

// --- fees ---

func (s *Server) handleSetFee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Bps    uint32 `json:"bps"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.SetFeePercentage(caller, req.Bps); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleGetFee(w http.ResponseWriter, r *http.Request) {
	bps, err := s.node.FeePercentage()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Bps uint32 `json:"bps"`
	}{Bps: bps})
}

// --- catalog ---

func (s *Server) handleAddService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string `json:"caller"`
		ServiceID uint64 `json:"serviceId"`
		Name      string `json:"name"`
		Price     string `json:"price"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	price, err := parseCoins("price", req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.AddService(caller, req.ServiceID, req.Name, price); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleRemoveService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string `json:"caller"`
		ServiceID uint64 `json:"serviceId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.RemoveService(caller, req.ServiceID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string `json:"caller"`
		ServiceID uint64 `json:"serviceId"`
		Name      string `json:"name"`
		Price     string `json:"price"`
		Active    bool   `json:"active"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	price, err := parseCoins("price", req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.UpdateService(caller, req.ServiceID, req.Name, price, req.Active); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleSetDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string `json:"caller"`
		ServiceID uint64 `json:"serviceId"`
		Discount  uint32 `json:"discount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.SetServiceDiscount(caller, req.ServiceID, req.Discount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	provider, err := parseAddress("addr", chi.URLParam(r, "addr"))
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("rpc: service id must be numeric: %w", common.ErrValidation))
		return
	}
	service, err := s.node.GetService(provider, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Name     string `json:"name"`
		Price    string `json:"price"`
		Coins    string `json:"coins"`
		Discount uint32 `json:"discount"`
		Active   bool   `json:"active"`
	}{
		Name:     service.Name,
		Price:    service.Price.String(),
		Coins:    types.FromScaled(service.Price).String(),
		Discount: service.Discount,
		Active:   service.Active,
	})
}

// --- settlement, reputation, airdrop ---

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string `json:"caller"`
		Provider  string `json:"provider"`
		ServiceID uint64 `json:"serviceId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.PayForService(caller, provider, req.ServiceID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller   string `json:"caller"`
		Provider string `json:"provider"`
		Rating   uint32 `json:"rating"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	provider, err := parseAddress("provider", req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.RateProvider(caller, provider, req.Rating); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (s *Server) handleAverageRating(w http.ResponseWriter, r *http.Request) {
	provider, err := parseAddress("addr", chi.URLParam(r, "addr"))
	if err != nil {
		writeError(w, err)
		return
	}
	avg, count, err := s.node.ProviderAverageRating(provider)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Average uint64 `json:"average"`
		Count   uint64 `json:"count"`
	}{Average: avg, Count: count})
}

func (s *Server) handleAirdrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller     string   `json:"caller"`
		Recipients []string `json:"recipients"`
		BaseAmount string   `json:"baseAmount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller, err := parseAddress("caller", req.Caller)
	if err != nil {
		writeError(w, err)
		return
	}
	recipients := make([][20]byte, 0, len(req.Recipients))
	for _, raw := range req.Recipients {
		recipient, err := parseAddress("recipients", raw)
		if err != nil {
			writeError(w, err)
			return
		}
		recipients = append(recipients, recipient)
	}
	base, err := parseCoins("baseAmount", req.BaseAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.node.AirdropStudents(caller, recipients, base); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}
