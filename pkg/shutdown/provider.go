package shutdown

import "github.com/google/wire"

// ProviderSet provides the process wide drain state
var ProviderSet = wire.NewSet(NewManager)
