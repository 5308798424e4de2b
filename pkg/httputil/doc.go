// Package httputil provides the HTTP plumbing shared by live-status clients.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped in
// [RetryableError] are retried; everything else fails immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return httputil.CheckResponse(resp)
//	})
//
// [CheckResponse] classifies responses: 5xx and 429 become retryable,
// other non-2xx statuses become a [StatusError]. A Retry-After header in
// seconds overrides the next backoff delay, capped at one minute.
//
// # JSON
//
// [Client.PostJSON] combines both: it encodes a request body, POSTs it with
// retry and decodes the JSON response.
package httputil
