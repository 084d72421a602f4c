// Package transport is the console's HTTP pipeline towards express-api.
//
// Every call goes through three stages:
//
//  1. RequestInterceptor injects the session token and serializes query
//     parameters (nested records become key[sub]=value).
//  2. The HTTP round trip, bounded by the configured timeout. Transport
//     failures surface as *NetworkError and are reported to the Notifier.
//  3. ResponseInterceptor classifies the {status, msg, data} envelope into an
//     Outcome. Status 401 wipes the session, warns once and schedules a
//     reload.
//
// Callers either inspect the Outcome returned by Client.Send or let
// Client.Do decode the data payload and map failures to typed errors.
package transport
