package mahjong

import (
	"fmt"

	"gomahjong/runtime/game/engines/mahjong/event"
	"gomahjong/runtime/game/engines/mahjong/state"
)

// ReplayValidate 用四家状态重放一份完整的公开事件流。
// 每条主动事件先用行动者的状态校验，再推送给四家
func ReplayValidate(events []event.Event) error {
	var states [4]*state.PlayerState
	for seat := range states {
		states[seat] = state.New(seat)
	}
	apply := func(i int, ev *event.Event) error {
		for seat, st := range states {
			masked := maskFor(ev, seat)
			if _, err := st.Update(&masked); err != nil {
				return fmt.Errorf("第 %d 条 %s, seat %d: %w", i, ev.Type, seat, err)
			}
		}
		return nil
	}

	for i := 0; i < len(events); i++ {
		ev := &events[i]
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("第 %d 条: %w", i, err)
		}
		// 多家荣和：全部先校验再应用
		if ev.Type == event.TypeHora {
			j := i
			for j < len(events) && events[j].Type == event.TypeHora {
				if err := states[events[j].Actor].ValidateReaction(&events[j]); err != nil {
					return fmt.Errorf("第 %d 条 hora: %w", j, err)
				}
				j++
			}
			for ; i < j; i++ {
				if err := apply(i, &events[i]); err != nil {
					return err
				}
			}
			i--
			continue
		}
		// 只有九种九牌的流局是主动事件
		if ev.IsActorEvent() {
			if err := states[ev.Actor].ValidateReaction(ev); err != nil {
				return fmt.Errorf("第 %d 条 %s: %w", i, ev.Type, err)
			}
		}
		if err := apply(i, ev); err != nil {
			return err
		}
	}
	return nil
}
