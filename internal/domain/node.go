package domain

// NodeInstance describes the local development node backing the hardhat profile
type NodeInstance struct {
	Port     string `json:"port"`
	ChainID  uint64 `json:"chainId"`
	ForkURL  string `json:"forkUrl,omitempty"`
	Mnemonic string `json:"-"`
	PidFile  string `json:"pidFile"`
	LogFile  string `json:"logFile"`
}

// NodeStatus represents the status of the local node
type NodeStatus struct {
	Running     bool   `json:"running"`
	PID         int    `json:"pid,omitempty"`
	RPCURL      string `json:"rpcUrl,omitempty"`
	LogFile     string `json:"logFile"`
	RPCHealthy  bool   `json:"rpcHealthy"`
	ChainID     uint64 `json:"chainId,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	Error       string `json:"error,omitempty"`
}
