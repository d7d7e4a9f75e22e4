package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func threeLivePlayers() []*Player {
	return []*Player{
		{ID: "p0", GameID: "g1", IsActive: true, Amount: 10000},
		{ID: "p1", GameID: "g1", IsActive: true, Amount: 10000},
		{ID: "p2", GameID: "g1", IsActive: true, Amount: 10000},
	}
}

func TestAdvanceTurnMidStreetPicksNextLiveNotAllIn(t *testing.T) {
	ctx := context.Background()
	repo := newFake()
	players := threeLivePlayers()
	hand := &Hand{ID: "h1", GameID: "g1", CurrentRound: RoundFlop, BigBlindAmount: 100, CurrentMaxBet: 0}
	require.NoError(t, repo.CreateHand(ctx, hand))

	players[0].Action = ActionCheck
	require.NoError(t, repo.AppendAction(ctx, &Action{
		HandID: hand.ID, PlayerID: "p0", Round: RoundFlop, ActionOrder: 1, ActionType: ActionCheck,
	}))

	require.NoError(t, advanceTurn(ctx, repo, hand, players, players[0]))

	require.Equal(t, "p1", hand.CurrentPlayerTurnID)
}

func TestAdvanceTurnSkipsFoldedSeat(t *testing.T) {
	ctx := context.Background()
	repo := newFake()
	players := threeLivePlayers()
	players[1].Action = ActionFold
	hand := &Hand{ID: "h1", GameID: "g1", CurrentRound: RoundFlop, BigBlindAmount: 100, CurrentMaxBet: 0}
	require.NoError(t, repo.CreateHand(ctx, hand))

	require.NoError(t, repo.AppendAction(ctx, &Action{
		HandID: hand.ID, PlayerID: "p0", Round: RoundFlop, ActionOrder: 1, ActionType: ActionCheck,
	}))

	require.NoError(t, advanceTurn(ctx, repo, hand, players, players[0]))

	require.Equal(t, "p2", hand.CurrentPlayerTurnID) // p1 folded, skipped
}

func TestAdvanceTurnClosesStreetAndResetsState(t *testing.T) {
	ctx := context.Background()
	repo := newFake()
	require.NoError(t, repo.CreateGame(ctx, &Game{}))
	game, err := repo.GetActiveGame(ctx)
	require.NoError(t, err)
	players, err := repo.CreatePlayers(ctx, game.ID, []SeatSpec{{Name: "p0"}, {Name: "p1"}, {Name: "p2"}}, 10000)
	require.NoError(t, err)

	hand := &Hand{ID: "h1", GameID: game.ID, Dealer: players[0].ID, CurrentRound: RoundFlop, BigBlindAmount: 100, CurrentMaxBet: 200}
	require.NoError(t, repo.CreateHand(ctx, hand))

	for i, p := range players {
		p.ActionAmount = 200
		p.Action = ActionCall
		require.NoError(t, repo.AppendAction(ctx, &Action{
			HandID: hand.ID, PlayerID: p.ID, Round: RoundFlop, ActionOrder: i + 1, ActionType: ActionCall,
		}))
	}

	require.NoError(t, advanceTurn(ctx, repo, hand, players, players[2]))

	require.Equal(t, RoundTurn, hand.CurrentRound)
	require.Equal(t, int64(0), hand.CurrentMaxBet)
	require.True(t, hand.IsChangedCurrentRound)
	require.Equal(t, players[1].ID, hand.CurrentPlayerTurnID) // first live seat after the dealer

	got, err := repo.GetPlayer(ctx, players[0].ID)
	require.NoError(t, err)
	require.Equal(t, ActionNone, got.Action)
	require.Equal(t, int64(0), got.ActionAmount)
}

func TestAdvanceTurnFinishesToShowdownOnRiver(t *testing.T) {
	ctx := context.Background()
	repo := newFake()
	players := threeLivePlayers()
	hand := &Hand{ID: "h1", GameID: "g1", Dealer: "p0", CurrentRound: RoundRiver, BigBlindAmount: 100, CurrentMaxBet: 200}
	require.NoError(t, repo.CreateHand(ctx, hand))

	for i, p := range players {
		p.ActionAmount = 200
		p.Action = ActionCall
		require.NoError(t, repo.AppendAction(ctx, &Action{
			HandID: hand.ID, PlayerID: p.ID, Round: RoundRiver, ActionOrder: i + 1, ActionType: ActionCall,
		}))
	}

	require.NoError(t, advanceTurn(ctx, repo, hand, players, players[2]))

	require.Equal(t, RoundShowdown, hand.CurrentRound)
	require.Equal(t, "", hand.CurrentPlayerTurnID)
}

func TestAdvanceTurnFinishesToShowdownWhenOneLivePlayerRemains(t *testing.T) {
	ctx := context.Background()
	repo := newFake()
	players, err := repo.CreatePlayers(ctx, "g1", []SeatSpec{{Name: "p0"}, {Name: "p1"}, {Name: "p2"}}, 10000)
	require.NoError(t, err)
	players[0].Action = ActionFold
	players[1].Action = ActionFold
	hand := &Hand{ID: "h1", GameID: "g1", Dealer: players[0].ID, CurrentRound: RoundFlop, CurrentMaxBet: 500}
	require.NoError(t, repo.CreateHand(ctx, hand))
	players[2].ActionAmount = 500

	require.NoError(t, advanceTurn(ctx, repo, hand, players, players[1]))

	require.Equal(t, RoundShowdown, hand.CurrentRound)
}

func TestAdvanceTurnGivesShortStackedOpponentTheirCallDecision(t *testing.T) {
	ctx := context.Background()
	repo := newFake()
	players := threeLivePlayers()
	players[0].Action = ActionFold
	hand := &Hand{ID: "h1", GameID: "g1", Dealer: "p0", CurrentRound: RoundFlop, CurrentMaxBet: 1000}
	require.NoError(t, repo.CreateHand(ctx, hand))
	players[1].Amount = 0 // just shoved all-in for 1000
	players[1].ActionAmount = 1000
	players[1].Action = ActionAllIn
	players[2].ActionAmount = 0 // hasn't responded to the shove yet

	require.NoError(t, advanceTurn(ctx, repo, hand, players, players[1]))

	// p2 still owes a call/fold decision on p1's shove -- the hand must not
	// jump straight to showdown just because p1 (the only other live seat)
	// is out of chips.
	require.Equal(t, "p2", hand.CurrentPlayerTurnID)
	require.NotEqual(t, RoundShowdown, hand.CurrentRound)
}
