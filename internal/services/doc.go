// package services implements the HTTP clients for the two tracking services.
//
// MangaDex (REST, username/password login with bearer session tokens) is the
// source; AniList (OAuth2 authorization-code grant, single GraphQL endpoint)
// is the destination. Both go through the shared transport [Client], which
// owns retry and reauthentication policy.
package services
