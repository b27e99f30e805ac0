package domain

// Audit event types recorded by the engine.
const (
	EventProposalCreated   = "proposal_created"
	EventVoteCast          = "vote_cast"
	EventProposalResolved  = "proposal_resolved"
	EventProposalExecuted  = "proposal_executed"
	EventProposalCancelled = "proposal_cancelled"
)
