package tennis

type PlayerSidesBroadcast struct {
	PlayerOne string `json:"playerOne"`
	PlayerTwo string `json:"playerTwo"`
}

type ScorePointRequest struct {
	PlayerID string `json:"playerID"`
}

type ScorePointResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type PointScoredBroadcast struct {
	PlayerID string `json:"playerID"`
}

type ScoreBroadcast struct {
	Score string `json:"score"`
}

type GameWonBroadcast struct {
	PlayerID string `json:"playerID"`
}
