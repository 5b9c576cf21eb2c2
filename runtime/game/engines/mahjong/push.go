package mahjong

import (
	"fmt"

	"gomahjong/framework/game/engines/mahjong/tile"
	"gomahjong/runtime/game/engines/mahjong/event"
)

// maskFor 某一家看到的事件：别家摸到的牌与配牌不可见
func maskFor(ev *event.Event, seat int) event.Event {
	out := *ev
	switch ev.Type {
	case event.TypeTsumo:
		if ev.Actor != seat {
			out.Pai = tile.Unknown
		}
	case event.TypeStartKyoku:
		for i := range out.Tehais {
			if i == seat {
				continue
			}
			for j := range out.Tehais[i] {
				out.Tehais[i][j] = tile.Unknown
			}
		}
	}
	return out
}

// broadcast 记录公开事件并推送给四家。任何一家拒绝都说明牌局已不一致
func (bs *BoardState) broadcast(ev event.Event) error {
	bs.events = append(bs.events, ev)
	for seat, st := range bs.states {
		masked := maskFor(&ev, seat)
		cans, err := st.Update(&masked)
		if err != nil {
			return fmt.Errorf("seat %d 应用 %s: %w", seat, ev.Type, err)
		}
		bs.cans[seat] = cans
	}
	return nil
}

// pushDrawTile 从牌山摸牌
func (bs *BoardState) pushDrawTile(seat int) error {
	if bs.tilesLeft <= 0 || bs.yamaIdx >= len(bs.board.Yama) {
		return fmt.Errorf("%w: 牌山已空", ErrWallExhausted)
	}
	t := bs.board.Yama[bs.yamaIdx]
	bs.yamaIdx++
	bs.tilesLeft--
	bs.tm.EnterDropPhase(seat)
	return bs.broadcast(event.Tsumo(seat, t))
}

// pushRinshanTile 杠后从王牌摸岭上牌
func (bs *BoardState) pushRinshanTile(seat int) error {
	if bs.tilesLeft <= 0 || bs.rinshanIdx >= len(bs.board.Rinshan) {
		return fmt.Errorf("%w: 岭上牌已空", ErrWallExhausted)
	}
	t := bs.board.Rinshan[bs.rinshanIdx]
	bs.rinshanIdx++
	bs.tilesLeft--
	bs.tm.EnterDropPhase(seat)
	return bs.broadcast(event.Tsumo(seat, t))
}

// pushDora 翻开下一张宝牌指示牌
func (bs *BoardState) pushDora() error {
	if bs.doraRevealed >= len(bs.board.DoraIndicators) {
		return fmt.Errorf("%w: 宝牌指示牌已全部翻开", ErrWallExhausted)
	}
	marker := bs.board.DoraIndicators[bs.doraRevealed]
	bs.doraRevealed++
	return bs.broadcast(event.Dora(marker))
}

// pushPendingDora 明杠、加杠的新宝牌在打牌后或下一次开杠前翻开
func (bs *BoardState) pushPendingDora() error {
	if !bs.needDora {
		return nil
	}
	bs.needDora = false
	return bs.pushDora()
}

// uraMarkers 与已翻开的宝牌同数量的里宝牌指示牌
func (bs *BoardState) uraMarkers() []tile.Tile {
	return append([]tile.Tile(nil), bs.board.UraIndicators[:bs.doraRevealed]...)
}
