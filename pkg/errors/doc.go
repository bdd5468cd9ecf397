// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "failed to run tegrastats",
//	    ctx.Err(),
//	    map[string]interface{}{
//	        "command": "tegrastats",
//	        "timeout": timeout,
//	    },
//	)
package errors
