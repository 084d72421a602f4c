// Package credentials persists the console's credential record: the session
// token, the remember-me flag, the remembered login and the current user.
//
// # Stores
//
// Every backend implements Store (Get/Set/Remove with per-key expiry in
// days and a cookie-style path):
//
//   - MemoryStore: process-local map, used by tests and "memory" mode.
//   - JarStore: cookies of the express-api origin in the transport
//     client's http.CookieJar, used by "jar" mode.
//   - CookieStore: real browser cookies for one HTTP request/response.
//   - SQLiteStore: durable file on disk, schema applied with goose.
//   - RedisStore: shared store with native key TTLs.
//   - SealedStore: decorator encrypting selected keys at rest.
//   - ScopedStore: keeps values without expiry in memory only, like
//     browser session cookies.
//
// # Record helpers
//
// SetRemember, LoadRemembered and Clear keep the remember-me keys
// consistent: rememberMe and Login-Info are always written or removed
// together. Stores that implement Batcher apply these updates atomically.
package credentials
