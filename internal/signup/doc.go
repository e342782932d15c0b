// Package signup holds the partner signup form state and the submission
// state machine that exchanges it with the remote signup service.
//
// A Machine is Idle or Pending. Submit moves it to Pending, performs exactly
// one call on the Gateway, and always settles back to Idle. The outcome is
// returned as an Effect (NavigateTo or ShowError) instead of being acted on,
// so callers decide how to redirect or render.
package signup
