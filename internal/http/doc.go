// Package http provides the outbound HTTP client used to fetch cover art
// and to carry the catalog API traffic.
//
//	client := http.NewClient(10 * time.Second)
//	data, err := client.Get(ctx, imageURL)
//	var se *http.StatusError
//	if errors.As(err, &se) && se.StatusCode == 404 {
//	    // no artwork
//	}
package http
