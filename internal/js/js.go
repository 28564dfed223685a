package js

var DOCUMENT_READY string = `
() => document.readyState === 'complete'
`

// Evaluated on an element, `this` is the element.
var IS_TOP_VISIBLE string = `
() => {
    var element = this;

    if (element.offsetWidth === 0 || element.offsetHeight === 0) return false;
    if (element.disabled) return false;
    var rects = element.getClientRects(),
        on_top = function (r) {
            var x = (r.left + r.right) / 2, y = (r.top + r.bottom) / 2;
            // Outside the viewport nothing can be hit tested, visible is enough
            if (x < 0 || y < 0 || x > window.innerWidth || y > window.innerHeight) return true;
            var hit = document.elementFromPoint(x, y);
            return hit === element || element.contains(hit);
        };
    for (var i = 0, l = rects.length; i < l; i++) {
        var r = rects[i]
        if (on_top(r)) return true;
    }
    return false;
}
`

// Evaluated on an element. Aligns the element with the top of the viewport
// so sticky footers stop covering it.
var SCROLL_TO_TOP string = `
() => {
    this.scrollIntoView(true);
}
`
