// Package datagrid implements a headless tree-table: a hierarchy of rows
// that can be expanded, collapsed, sorted at every level, and rendered
// through a scroll window that only materializes the rows in view.
//
// A Grid owns a hidden root Node. Hosts insert nodes under it, call
// SetViewport when the container changes size, ScrollTo when the user
// scrolls, and draw the Frame returned by Render. Mutations are applied
// synchronously; rendering is deferred to the next frame of the configured
// FrameScheduler so that bursts of inserts coalesce into one pass.
//
// The grid is not safe for concurrent use. Hosts that receive rows on other
// goroutines must hand them to the goroutine that owns the grid.
package datagrid
