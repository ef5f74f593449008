package vdom

import (
	"github.com/yeyan1996/vue/internal/warn"
)

// updateChildren reconciles two child lists with a four-cursor sweep.
// Matches at the cursors never move nodes; the head-to-tail and
// tail-to-head cases translate to a single move each; only the keyed
// fallback searches the remaining window. Slots consumed by the fallback
// are nilled out and skipped when a cursor reaches them.
func (p *Patcher) updateChildren(parentElm Node, oldCh, newCh []*VNode, insertedQueue *[]*VNode, removeOnly bool) {
	oldStartIdx, newStartIdx := 0, 0
	oldEndIdx := len(oldCh) - 1
	newEndIdx := len(newCh) - 1
	oldStartVnode, oldEndVnode := oldCh[0], oldCh[oldEndIdx]
	newStartVnode, newEndVnode := newCh[0], newCh[newEndIdx]

	var oldKeyToIdx map[string]int

	// removeOnly holds retained nodes at stable positions so leave
	// transitions play out where the node stood.
	canMove := !removeOnly

	if warn.Dev {
		checkDuplicateKeys(newCh)
	}

	for oldStartIdx <= oldEndIdx && newStartIdx <= newEndIdx {
		switch {
		case oldStartVnode == nil:
			oldStartIdx++
			if oldStartIdx <= oldEndIdx {
				oldStartVnode = oldCh[oldStartIdx]
			}
		case oldEndVnode == nil:
			oldEndIdx--
			if oldStartIdx <= oldEndIdx {
				oldEndVnode = oldCh[oldEndIdx]
			}
		case SameVNode(oldStartVnode, newStartVnode):
			p.patchVnode(oldStartVnode, newStartVnode, insertedQueue, newCh, newStartIdx, false)
			oldStartIdx++
			newStartIdx++
			if oldStartIdx <= oldEndIdx {
				oldStartVnode = oldCh[oldStartIdx]
			}
			if newStartIdx <= newEndIdx {
				newStartVnode = newCh[newStartIdx]
			}
		case SameVNode(oldEndVnode, newEndVnode):
			p.patchVnode(oldEndVnode, newEndVnode, insertedQueue, newCh, newEndIdx, false)
			oldEndIdx--
			newEndIdx--
			if oldStartIdx <= oldEndIdx {
				oldEndVnode = oldCh[oldEndIdx]
			}
			if newStartIdx <= newEndIdx {
				newEndVnode = newCh[newEndIdx]
			}
		case SameVNode(oldStartVnode, newEndVnode):
			// Old head moved toward the tail.
			p.patchVnode(oldStartVnode, newEndVnode, insertedQueue, newCh, newEndIdx, false)
			if canMove {
				p.ops.InsertBefore(parentElm, oldStartVnode.Elm, p.ops.NextSibling(oldEndVnode.Elm))
			}
			oldStartIdx++
			newEndIdx--
			if oldStartIdx <= oldEndIdx {
				oldStartVnode = oldCh[oldStartIdx]
			}
			if newStartIdx <= newEndIdx {
				newEndVnode = newCh[newEndIdx]
			}
		case SameVNode(oldEndVnode, newStartVnode):
			// Old tail moved toward the head.
			p.patchVnode(oldEndVnode, newStartVnode, insertedQueue, newCh, newStartIdx, false)
			if canMove {
				p.ops.InsertBefore(parentElm, oldEndVnode.Elm, oldStartVnode.Elm)
			}
			oldEndIdx--
			newStartIdx++
			if oldStartIdx <= oldEndIdx {
				oldEndVnode = oldCh[oldEndIdx]
			}
			if newStartIdx <= newEndIdx {
				newStartVnode = newCh[newStartIdx]
			}
		default:
			if oldKeyToIdx == nil {
				oldKeyToIdx = createKeyToOldIdx(oldCh, oldStartIdx, oldEndIdx)
			}
			idxInOld := -1
			if newStartVnode.Key != "" {
				if i, ok := oldKeyToIdx[newStartVnode.Key]; ok {
					idxInOld = i
				}
			} else {
				idxInOld = findIdxInOld(newStartVnode, oldCh, oldStartIdx, oldEndIdx)
			}
			if idxInOld < 0 {
				p.createElm(newStartVnode, insertedQueue, parentElm, oldStartVnode.Elm, newCh, newStartIdx)
			} else {
				vnodeToMove := oldCh[idxInOld]
				if SameVNode(vnodeToMove, newStartVnode) {
					p.patchVnode(vnodeToMove, newStartVnode, insertedQueue, newCh, newStartIdx, false)
					oldCh[idxInOld] = nil
					if canMove {
						p.ops.InsertBefore(parentElm, vnodeToMove.Elm, oldStartVnode.Elm)
					}
				} else {
					// Same key, different identity: treat as new.
					p.createElm(newStartVnode, insertedQueue, parentElm, oldStartVnode.Elm, newCh, newStartIdx)
				}
			}
			newStartIdx++
			if newStartIdx <= newEndIdx {
				newStartVnode = newCh[newStartIdx]
			}
		}
	}

	if oldStartIdx > oldEndIdx {
		var refElm Node
		if newEndIdx+1 < len(newCh) {
			refElm = newCh[newEndIdx+1].Elm
		}
		p.addVnodes(parentElm, refElm, newCh, newStartIdx, newEndIdx, insertedQueue)
	} else if newStartIdx > newEndIdx {
		p.removeVnodes(oldCh, oldStartIdx, oldEndIdx)
	}
}

func createKeyToOldIdx(children []*VNode, beginIdx, endIdx int) map[string]int {
	m := make(map[string]int, endIdx-beginIdx+1)
	for i := beginIdx; i <= endIdx; i++ {
		if children[i] != nil && children[i].Key != "" {
			// Later occurrences win on duplicate keys; the duplicate is
			// diagnosed separately.
			m[children[i].Key] = i
		}
	}
	return m
}

// findIdxInOld scans the remaining old window for an unkeyed match.
func findIdxInOld(node *VNode, oldCh []*VNode, start, end int) int {
	for i := start; i <= end; i++ {
		c := oldCh[i]
		if c != nil && SameVNode(node, c) {
			return i
		}
	}
	return -1
}

func checkDuplicateKeys(children []*VNode) {
	seen := make(map[string]bool, len(children))
	for _, v := range children {
		if v == nil || v.Key == "" {
			continue
		}
		if seen[v.Key] {
			warn.Warnf("duplicate keys detected: %q. This may cause an update error.", v.Key)
		}
		seen[v.Key] = true
	}
}
