// Package emit linearizes the body of a generator function into the case
// list of a resumable state machine.
//
// The emitted inner function has the shape
//
//	function inner($ctx) {
//	  while (1) switch ($ctx.prev = $ctx.next) {
//	  case 0:
//	    ...
//	  case "end":
//	    return $ctx.stop();
//	  }
//	}
//
// Statements that contain no leap (yield, return, break, continue) are
// copied verbatim into the current case. Everything else is exploded into
// jumps between numbered locations. Saved intermediate values live in
// context temporaries $ctx.t0, $ctx.t1 and so on.
package emit
