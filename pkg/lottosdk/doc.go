/*
Package lottosdk provides a client SDK for the lotto draw service.

# SDKClient vs Session

  - SDKClient: public operations (health, registration, bootstrap) and login
  - Session: operations on behalf of a logged in user

	client := lottosdk.NewSDKClient("https://lotto.example.com")

	reg, err := client.Register(ctx, lottosdk.RegisterRequest{...})

	session, err := client.Login(ctx, email, password, otp)
	var apiErr *lottosdk.APIError
	if errors.As(err, &apiErr) && apiErr.RemainingAttempts != nil {
		fmt.Println("attempts left:", *apiErr.RemainingAttempts)
	}

	draw, err := session.SubmitDraw(ctx, []int{1, 2, 3, 4, 5, 6})
	unplayed, err := session.UnplayedDraws(ctx)

# Login sessions

Failed logins count against a server-side login session. The SDKClient keeps
the token of its pending login session between Login calls so the server can
count attempts; after three failures the session is locked and every
further Login on this client returns ErrLockedOut. Call ResetLogin to start
over with a fresh session.

# Errors

Every non-2xx response becomes an *APIError. Compare with errors.Is against
the predefined errors:

	if errors.Is(err, lottosdk.ErrInvalidSecondFactor) { ... }
*/
package lottosdk
