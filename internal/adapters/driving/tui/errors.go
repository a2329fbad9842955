package tui

import "errors"

// ErrMissingWorkspace is returned when the workspace is not provided.
var ErrMissingWorkspace = errors.New("tui: workspace is required")

// ErrMissingSession is returned when the session store is not provided.
var ErrMissingSession = errors.New("tui: session store is required")
