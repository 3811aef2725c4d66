// Package marketplace implements a small marketplace backend: user
// registration and login with JWT bearer tokens, and seed/byproduct
// listings owned by registered users, persisted through Bun.
//
// Authentication:
//   - TokenService signs and validates HS256 tokens whose claims carry the
//     owning user id plus issued-at and expiry (24h window by default).
//   - TokenAuth is the request middleware. It has three outcomes: requests
//     without credentials pass through anonymously on optional routes,
//     requests with a valid token get the resolved User attached to the
//     request context, and everything else is rejected.
//
// Storage:
//   - RepositoryManager exposes the Users and Products repositories and
//     transaction scoping. The schema ships as embedded SQL migrations,
//     see GetMigrationsFS and RunMigrations.
package marketplace
