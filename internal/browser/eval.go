package browser

// JS snippets evaluated inside the page. Selectors and needles are
// injected pre-quoted via strconv.Quote.

const jsFindAndClick = `
(function() {
  var sel = %s;
  var needle = %s;
  var nodes = document.querySelectorAll(sel);
  for (var i = 0; i < nodes.length; i++) {
    var el = nodes[i];
    var text = (el.innerText || el.textContent || "").trim().toLowerCase();
    if (text.indexOf(needle) !== -1) {
      el.scrollIntoView({block: "center"});
      el.click();
      return true;
    }
  }
  return false;
})()
`

const jsScrollToBottom = `
(function() {
  var el = document.querySelector(%s);
  if (!el) return false;
  el.scrollTop = el.scrollHeight;
  return true;
})()
`

const jsCountNodes = `document.querySelectorAll(%s).length`

const jsReadAllText = `
(function() {
  var nodes = document.querySelectorAll(%s);
  var out = [];
  for (var i = 0; i < nodes.length; i++) {
    out.push((nodes[i].innerText || nodes[i].textContent || "").trim());
  }
  return out;
})()
`
