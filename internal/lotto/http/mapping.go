package http

import (
	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/aussiebroadwan/lotto/internal/lotto/service"
	"github.com/aussiebroadwan/lotto/pkg/lottosdk"
)

func registerRequest(req lottosdk.RegisterRequest) service.RegisterRequest {
	return service.RegisterRequest{
		Email:           req.Email,
		Firstname:       req.Firstname,
		Lastname:        req.Lastname,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		PinKey:          req.PinKey,
	}
}

func registerResponse(reg service.Registration) lottosdk.RegisterResponse {
	return lottosdk.RegisterResponse{
		Account:         accountResponse(reg.Account),
		ProvisioningURI: reg.ProvisioningURI,
	}
}

func accountResponse(a domain.Account) lottosdk.AccountResponse {
	return lottosdk.AccountResponse{
		ID:              a.ID,
		Email:           a.Email,
		Firstname:       a.Firstname,
		Lastname:        a.Lastname,
		Phone:           a.Phone,
		Role:            string(a.Role),
		LastLoggedIn:    a.LastLoggedIn,
		CurrentLoggedIn: a.CurrentLoggedIn,
		CreatedAt:       a.CreatedAt,
	}
}

func drawListResponse(l service.DrawListing) lottosdk.DrawListResponse {
	out := lottosdk.DrawListResponse{
		Draws: make([]lottosdk.DrawResponse, 0, len(l.Draws)),
		Empty: l.Empty(),
	}
	for _, v := range l.Draws {
		out.Draws = append(out.Draws, lottosdk.DrawResponse{
			ID:      v.ID,
			Numbers: v.Numbers,
			Played:  v.Played,
			Win:     v.Win,
			Round:   v.Round,
			Status:  string(v.Status),
		})
	}
	return out
}
