// Package services implements the Spotify Web API request layer and the playback controller built on it.
//
// # Request Layer
//
// [Client] sends one logical request per call. Each attempt is built fresh with the
// stored access token as a bearer header, paced by a [rate.Limiter] and bounded by the
// HTTP client timeout. Non-2xx answers are mapped onto the sentinel errors in shared:
//   - 401 : [shared.ErrUnauthorized], consumed by [WithAuthRetry]
//   - 404 with reason NO_ACTIVE_DEVICE : [shared.ErrNoActiveDevice]
//   - 429 : [shared.ErrRateLimited], never retried
//   - anything else : [*shared.APIError] wrapping [shared.ErrAPIRequest]
//
// Transport failures become [shared.ErrTimeout] or [shared.ErrNetwork].
//
// # Auth Retry
//
// [WithAuthRetry] wraps a call so a rejected token triggers exactly one refresh and one
// retry. A failed refresh or a second rejection ends in [shared.ErrAuth].
//
// # Playback
//
// [SpotifyPlayer] implements [Player] on top of a [Doer]. Snapshots are read fresh on
// every call and never cached.
package services
