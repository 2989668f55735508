// Package sakila provides a client for the film rental catalog REST service.
//
// The client translates typed intents into JSON requests against a fixed
// base URL (for example http://localhost:5001/api). It owns no state: there
// are no retries, no caching and no client-enforced timeout. Any non-2xx
// response or transport failure is returned as an error; callers treat all
// failures uniformly.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := sakila.NewClient("http://localhost:5001/api", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	page, err := client.Customers(ctx, 1, 20, "")
//
// # Errors
//
// Non-2xx responses are reported as *APIError:
//
//	if sakila.IsNotFound(err) {
//		// render the not-found view
//	}
package sakila
