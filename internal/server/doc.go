// Package server provides HTTP routing and OAuth callback handling for the
// interactive authorization flow.
//
// # Router Infrastructure
//
// [BasicRouter] registers [Handler] implementations on an [http.ServeMux].
//
// [Middleware] wraps handlers in the standard Go pattern; the first
// middleware added ends up outermost.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user authenticates, a temporary HTTP server starts on the
// configured loopback address, handles the single callback from the
// provider's consent page, and shuts down after delivering the token to
// the authenticator.
package server
